package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringSet stores an unordered set of strings in a single TEXT column as a
// JSON array. It backs the per-post like set, which the application always
// reads and writes whole.
type StringSet []string

// Scan implements sql.Scanner.
func (s *StringSet) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("StringSet: unsupported scan type")
	}

	if len(data) == 0 {
		*s = StringSet{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// Value implements driver.Valuer. The JSON representation works across
// postgres, mysql and sqlite alike.
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType returns the GORM data type hint.
func (StringSet) GormDataType() string {
	return "text"
}

// Contains reports whether id is a member of the set.
func (s StringSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a copy of the set with id removed when present and added
// when absent. The receiver is never mutated.
func (s StringSet) Toggle(id string) StringSet {
	out := make(StringSet, 0, len(s)+1)
	found := false
	for _, v := range s {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
