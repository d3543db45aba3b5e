package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID идентификатор ресурса бэкенда.
// Бэкенд отдаёт id то строкой, то числом, поэтому принимаем оба варианта.
type ID string

// UnmarshalJSON принимает "42", 42 и null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String возвращает строковое представление
func (id ID) String() string {
	return string(id)
}

// IsZero проверяет что id не задан
func (id ID) IsZero() bool {
	return id == ""
}

// Int64 пытается интерпретировать id как число
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
