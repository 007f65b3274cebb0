package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Collection is the provider-agnostic representation of an NFT collection.
type Collection struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	ItemsCount  ItemsCount `json:"itemsCount"`
	Owner       *string    `json:"owner"`
}

// ItemsCount is either an exact number of items or a display hint such as "1000+".
// It encodes as a JSON number when exact and as a string otherwise.
type ItemsCount struct {
	exact int
	hint  string
	known bool
}

// ExactCount returns an exact item count.
func ExactCount(n int) ItemsCount {
	return ItemsCount{exact: n, known: true}
}

// ParseItemsCount treats numeric strings as exact and anything else as a hint.
func ParseItemsCount(s string) ItemsCount {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return ExactCount(n)
	}
	return ItemsCount{hint: s}
}

// Exact returns the count and true only when the provider exposed an exact number.
func (c ItemsCount) Exact() (int, bool) {
	return c.exact, c.known
}

func (c ItemsCount) String() string {
	if c.known {
		return strconv.Itoa(c.exact)
	}
	return c.hint
}

func (c ItemsCount) MarshalJSON() ([]byte, error) {
	if c.known {
		return []byte(strconv.Itoa(c.exact)), nil
	}
	return json.Marshal(c.hint)
}

func (c *ItemsCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseItemsCount(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ExactCount(n)
	return nil
}
