package profiling

import (
	"testing"

	"github.com/ai-lead/ai-lead-api/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_CustomDeduplicates(t *testing.T) {
	got, err := parseProfileTypes("cpu, mutex,,CPU")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildTags_SkipsEmpty(t *testing.T) {
	got := buildTags(config.ObservabilityConfig{
		ServiceName:    "ai-lead-api",
		ServiceVersion: "1.0.0",
	}, "production")

	assert.Equal(t, map[string]string{
		"service_name":    "ai-lead-api",
		"service_version": "1.0.0",
		"environment":     "production",
	}, got)
}

func TestInitProfiler_Disabled(t *testing.T) {
	stop, err := InitProfiler(config.ProfilingConfig{}, config.ObservabilityConfig{}, "test")
	require.NoError(t, err)
	assert.NotPanics(t, stop)
}

func TestInitProfiler_EnabledWithoutEndpoint(t *testing.T) {
	_, err := InitProfiler(config.ProfilingConfig{Enabled: true, Endpoint: "  "}, config.ObservabilityConfig{}, "test")
	assert.Error(t, err)
}
