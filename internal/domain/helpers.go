package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a JSON string array stored in a JSONB column.
type StringSlice []string

// Value implements the driver.Valuer interface for database serialization
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	if err := json.Unmarshal(cloned, s); err != nil {
		return err
	}

	if *s == nil {
		*s = StringSlice{}
	}
	return nil
}
