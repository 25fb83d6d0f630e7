package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings persisted as a JSONB array.
type StringList []string

// Value marshals the list to JSON, writing an empty array for nil.
func (l StringList) Value() (driver.Value, error) {
	return jsonbValue(l, l == nil, "string list")
}

// Scan unmarshals a JSONB array.
func (l *StringList) Scan(value interface{}) error {
	return jsonbScan(value, l, "StringList")
}

func jsonbValue(v interface{}, isNil bool, name string) (driver.Value, error) {
	if isNil {
		return []byte("[]"), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return data, nil
}

func jsonbScan(value interface{}, dst interface{}, name string) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
