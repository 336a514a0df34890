package models

import (
	"strconv"
	"strings"
)

// VendorResult is a decrypted, signature-verified vendor response payload with
// the sign field removed. The vendor's field set varies per endpoint, so the
// payload is kept as a map and accessed through the helpers below.
type VendorResult map[string]any

// successMarker is the substring the vendor puts into human-readable messages
// of successful calls ("成功" = success).
const successMarker = "成功"

// IsSuccess reports whether the response represents a successful vendor call.
//
// The vendor has no single canonical success field; this predicate reproduces
// the overlapping heuristics the endpoints are known to use (numeric result
// codes, boolean/string success markers, message substring). It may not cover
// every vendor failure mode; the heuristics are deliberately not extended
// with guessed cases.
func (r VendorResult) IsSuccess() bool {
	if r == nil {
		return false
	}

	code := r.stringField("errorCode")
	if code == "" {
		code = r.stringField("resultCode")
	}
	if code == "" {
		code = r.stringField("code")
	}
	if code == "0000" || code == "000000" {
		return true
	}

	if success, ok := r["success"]; ok {
		if b, ok := success.(bool); ok && b {
			return true
		}
		if s, ok := success.(string); ok && s == "true" {
			return true
		}
	}
	if r.stringField("resultCode") == "success" {
		return true
	}
	if strings.Contains(r.stringField("msg"), successMarker) {
		return true
	}
	if strings.Contains(r.stringField("resultDesc"), successMarker) {
		return true
	}

	return false
}

// Data returns the payload's data field normalized one level deep
// (the vendor frequently double-encodes it as a JSON string).
func (r VendorResult) Data() any {
	if r == nil {
		return nil
	}
	return Normalize(r["data"])
}

// DataObject returns the normalized data field as an object, or false when the
// data field is absent or not object-shaped.
func (r VendorResult) DataObject() (map[string]any, bool) {
	obj, ok := r.Data().(map[string]any)
	return obj, ok
}

// DataList returns the normalized data field as a list, or false when the data
// field is absent or not list-shaped.
func (r VendorResult) DataList() ([]any, bool) {
	list, ok := r.Data().([]any)
	return list, ok
}

// Message returns the most descriptive human-readable message the response
// carries, preferring resultDesc over msg, or an empty string.
func (r VendorResult) Message() string {
	if desc := r.stringField("resultDesc"); desc != "" {
		return desc
	}
	return r.stringField("msg")
}

func (r VendorResult) stringField(key string) string {
	s, _ := r[key].(string)
	return s
}

// StringField returns the first named field of obj as a trimmed string, or an
// empty string when all are absent. Numeric values are formatted, since the
// vendor is inconsistent about whether identifiers arrive as strings or
// numbers. Shared by callers that pick identifiers (orderNo, custNo, tokens)
// out of normalized data objects.
func StringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			return strconv.FormatInt(v, 10)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}
