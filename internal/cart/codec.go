package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion of the persisted payload. Payloads without a version are the
// legacy unversioned shape and migrate as-is.
const SchemaVersion = 1

var ErrCorruptPayload = errors.New("corrupt cart payload")

type payload struct {
	Version int     `json:"version"`
	Items   []Item  `json:"items"`
	Total   float64 `json:"total"`
}

func Encode(s State) (string, error) {
	items := s.Items
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(payload{Version: SchemaVersion, Items: items, Total: s.Total})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func Decode(raw string) (State, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	switch p.Version {
	case 0, SchemaVersion:
		return State{Items: p.Items, Total: p.Total}, nil
	default:
		return State{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptPayload, p.Version)
	}
}
