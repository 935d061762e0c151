package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// NormalizeWebhookReply decodes a webhook body and maps it onto LeadResponse.
//
// The workflow may answer with an object or with an array of objects; only the
// first array element is used and an empty array behaves like an empty object.
// Any other top-level JSON type is rejected.
func NormalizeWebhookReply(body []byte) (*LeadResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode n8n response: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode n8n response: unexpected data after top-level value")
	}

	source, err := replySource(raw)
	if err != nil {
		return nil, err
	}

	return &LeadResponse{
		Classification: Classification{
			Intent:      field(source, "intent", DefaultIntent),
			Name:        field(source, "name", ""),
			Company:     field(source, "company", ""),
			Requirement: field(source, "requirement", ""),
			CreatedAt:   field(source, "created_at", ""),
		},
		Reply: field(source, "reply", DefaultReply),
	}, nil
}

func replySource(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case []any:
		if len(v) == 0 {
			return map[string]any{}, nil
		}
		first, ok := v[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected n8n response: first array element is %s, want object", jsonType(v[0]))
		}
		return first, nil
	default:
		return nil, fmt.Errorf("unexpected n8n response: top-level value is %s, want object or array", jsonType(v))
	}
}

// field returns the value for key, or def when the key is absent. A key that
// is present with a null value is kept as null.
func field(source map[string]any, key string, def any) any {
	if v, ok := source[key]; ok {
		return v
	}
	return def
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
