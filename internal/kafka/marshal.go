package kafka

import (
	"encoding/json"
	"fmt"
	"github.com/segmentio/kafka-go"
)

func UnmarshalEnvelope(b []byte, out any) error {
	return json.Unmarshal(b, out)
}

// UnwrapPayload decodes an envelope payload into T.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// Header returns the value of the first header named key.
func Header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
