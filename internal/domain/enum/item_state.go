package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ItemState is the lifecycle phase of a stock bucket
type ItemState int

const (
	ItemStateInStore ItemState = 0
	ItemStateOnShelf ItemState = 1
	ItemStateExpired ItemState = 2
	ItemStateSoldOut ItemState = 3
)

var itemStateNames = [...]string{"IN_STORE", "ON_SHELF", "EXPIRED", "SOLD_OUT"}

func (s ItemState) String() string {
	if int(s) < 0 || int(s) >= len(itemStateNames) {
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
	return itemStateNames[s]
}

// IsValid reports whether s is one of the four known states
func (s ItemState) IsValid() bool {
	return int(s) >= 0 && int(s) < len(itemStateNames)
}

// ParseItemState maps a state name back to its value
func ParseItemState(name string) (ItemState, error) {
	for i, n := range itemStateNames {
		if n == name {
			return ItemState(i), nil
		}
	}
	return ItemStateInStore, fmt.Errorf("unknown item state %q", name)
}

func (s ItemState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ItemState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ItemState(i)
		return nil
	}
	parsed, err := ParseItemState(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ItemState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ItemState) Scan(value interface{}) error {
	if value == nil {
		*s = ItemStateInStore
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ItemState(v)
	case int:
		*s = ItemState(v)
	default:
		return fmt.Errorf("cannot scan %T into ItemState", value)
	}
	return nil
}
