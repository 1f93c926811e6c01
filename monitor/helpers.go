package monitor

import "encoding/json"

// defaultValue converts a Go value to a [json.RawMessage] suitable for
// use as a JSON Schema default value. Returns nil if marshaling fails.
func defaultValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	return b
}
