package domain

import (
	"database/sql/driver"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var listJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// StringList stores an ordered list of free-text labels as a JSON column.
// Duplicates are permitted and submission order is preserved.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := listJSON.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T for StringList", src)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return listJSON.Unmarshal(data, (*[]string)(l))
}

// Int64List stores an ordered list of int64 references as a JSON column.
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		l = Int64List{}
	}
	data, err := listJSON.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *Int64List) Scan(src interface{}) error {
	if src == nil {
		*l = Int64List{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T for Int64List", src)
	}
	if len(data) == 0 {
		*l = Int64List{}
		return nil
	}
	return listJSON.Unmarshal(data, (*[]int64)(l))
}
