package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NumberInput accepts a JSON number, a numeric string ("8,5", "1500") or null, and keeps
// the raw text so validation can report the exact input. Null and "" both mean absent.
type NumberInput string

func (n *NumberInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberInput(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumberInput(num.String())
	return nil
}

// IsZero reports whether the value was absent.
func (n NumberInput) IsZero() bool {
	return n == ""
}
