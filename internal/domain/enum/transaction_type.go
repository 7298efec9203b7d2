package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionType tells whether a bill was rung up in the store or ordered online
type TransactionType int

const (
	TransactionTypeInStore TransactionType = 0
	TransactionTypeOnline  TransactionType = 1
)

func (t TransactionType) String() string {
	names := [...]string{"IN_STORE", "ONLINE"}
	if int(t) < 0 || int(t) >= len(names) {
		return "IN_STORE"
	}
	return names[t]
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TransactionType(i)
		return nil
	}
	switch str {
	case "IN_STORE":
		*t = TransactionTypeInStore
	case "ONLINE":
		*t = TransactionTypeOnline
	}
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	if value == nil {
		*t = TransactionTypeInStore
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TransactionType(v)
	case int:
		*t = TransactionType(v)
	}
	return nil
}
