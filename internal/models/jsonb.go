package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// valueJSON encodes v for a JSONB column. lib/pq sends []byte as bytea, so the
// document travels as text.
func valueJSON(v interface{}) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// scanJSON decodes a JSONB column into dest. NULL leaves dest untouched.
func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}
