package rutos

import (
	"encoding/json"
	"fmt"
)

// APIError represents a single error entry reported by the device API.
type APIError struct {
	Code    int     `json:"code"`
	Message string  `json:"error"`
	Source  *string `json:"source,omitempty"`
	Section *string `json:"section,omitempty"`
}

// Response is the generic success/data/errors envelope every API endpoint
// wraps its payload in.
type Response[T any] struct {
	Success bool       `json:"success"`
	Data    *T         `json:"data,omitempty"`
	Errors  []APIError `json:"errors,omitempty"`
}

// GetErrorByCode returns the first error with the given code, in declaration
// order, or nil when the response carries no matching error.
func (r *Response[T]) GetErrorByCode(code int) *APIError {
	for i := range r.Errors {
		if r.Errors[i].Code == code {
			return &r.Errors[i]
		}
	}
	return nil
}

// normalizeNA recursively replaces the literal string "N/A" with nil. The
// API sometimes returns "N/A" where a proper null is meant, and the scrub
// has to run over the raw structure before any typed decoding.
func normalizeNA(value any) any {
	switch v := value.(type) {
	case string:
		if v == "N/A" {
			return nil
		}
		return v
	case map[string]any:
		for key, val := range v {
			v[key] = normalizeNA(val)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNA(item)
		}
		return v
	default:
		return value
	}
}

// decodeResponse parses a raw response body into a typed envelope. The body
// is decoded into a generic JSON tree first so "N/A" values can be scrubbed
// before the typed validation sees them.
func decodeResponse[T any](body []byte) (*Response[T], error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	normalized, err := json.Marshal(normalizeNA(raw))
	if err != nil {
		return nil, fmt.Errorf("re-encoding normalized response: %w", err)
	}

	var resp Response[T]
	if err := json.Unmarshal(normalized, &resp); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}
	return &resp, nil
}
