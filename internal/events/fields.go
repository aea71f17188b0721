package events

import (
	"bytes"
	"encoding/json"
	"strings"
)

// requireFields reports the first dotted path that is absent or null in data
func requireFields(data []byte, paths ...string) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}

	for _, path := range paths {
		if !hasField(root, strings.Split(path, ".")) {
			return ErrorMissingField(path)
		}
	}
	return nil
}

func hasField(obj map[string]json.RawMessage, parts []string) bool {
	raw, ok := obj[parts[0]]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	if len(parts) == 1 {
		return true
	}

	var child map[string]json.RawMessage
	if err := json.Unmarshal(raw, &child); err != nil {
		return false
	}
	return hasField(child, parts[1:])
}
