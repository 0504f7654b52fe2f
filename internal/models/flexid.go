package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrInvalidID is returned when an id field holds something other than a string or a number.
var ErrInvalidID = errors.New("id must be a string or a number")

// FlexID is an identifier that clients may send either as a JSON string or a JSON number.
// A missing field or null leaves Set false.
type FlexID struct {
	Value string
	Set   bool
}

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = FlexID{}
		return nil
	}

	switch c := b[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID{Value: s, Set: true}
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = FlexID{Value: n.String(), Set: true}
	default:
		return ErrInvalidID
	}
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ParseFlexID decodes a bare id (a JSON string or number) from raw event data.
func ParseFlexID(raw json.RawMessage) (FlexID, error) {
	var id FlexID
	if err := id.UnmarshalJSON(raw); err != nil {
		return FlexID{}, err
	}
	return id, nil
}
