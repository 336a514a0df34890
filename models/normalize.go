package models

import "encoding/json"

// TryParseJSON attempts to decode s as JSON. It returns the decoded value and
// true on success, or nil and false when s is not valid JSON.
func TryParseJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// Normalize resolves the vendor's habit of sending JSON-encoded strings where
// objects are expected. A string value is parsed one level deep; anything that
// is not a string, or a string that is not valid JSON, is returned unchanged.
func Normalize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if parsed, ok := TryParseJSON(s); ok && parsed != nil {
		return parsed
	}
	return v
}
