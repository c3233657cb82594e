package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SizeList is stored as a JSON array, e.g. ["50ml","100ml"].
type SizeList []string

func (s SizeList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SizeList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SizeList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported size list type %T", src)
	}
	if len(raw) == 0 {
		*s = SizeList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		// legacy rows hold a bare size such as "100ml"
		*s = SizeList{string(raw)}
		return nil
	}
	*s = out
	return nil
}
