package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnsupportedJSONValue = errors.New("unsupported json column value")

// JSONList is a slice stored in a JSONB column. NULL scans to an empty list.
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}

	return data, nil
}

func (l *JSONList[T]) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}

		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedJSONValue, src)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}

	*l = items

	return nil
}
