package api

import (
	"bytes"
	"encoding/json"
)

// The canonical response envelope is
//
//	{"success": true, "data": {...}, "detail": "..."}
//
// where data may be omitted and the object returned bare.

// safeJSON decodes body into a generic object; anything else yields nil.
func safeJSON(body []byte) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	return obj
}

// unwrapData returns the "data" member if present and non-null, otherwise
// the body itself.
func unwrapData(body []byte) []byte {
	obj := safeJSON(body)
	if data, ok := obj["data"]; ok && !isNull(data) {
		return data
	}
	return body
}

// succeeded reports whether the envelope has "success": true.
func succeeded(body []byte) bool {
	var ok bool
	raw, found := safeJSON(body)["success"]
	if !found {
		return false
	}
	return json.Unmarshal(raw, &ok) == nil && ok
}

// detail returns the first string among detail, error and message.
func detail(body []byte) string {
	obj := safeJSON(body)
	for _, k := range []string{"detail", "error", "message"} {
		var s string
		if raw, ok := obj[k]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
