package chat

import (
	"encoding/json"
	"fmt"
)

// MarshalValue encodes a session value for a storage backend.
func MarshalValue(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal session value: %w", err)
	}
	return data, nil
}

// UnmarshalValue decodes a stored session value into out.
func UnmarshalValue(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal session value: %w", err)
	}
	return nil
}
