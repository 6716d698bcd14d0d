package order

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity decodes leniently: numbers, numeric strings and junk are all
// accepted, and anything that is not a positive number becomes 1.
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*q = 1
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*q = Quantity(clampFloat(v))
	case string:
		*q = Quantity(ParseQuantity(v))
	default:
		*q = 1
	}
	return nil
}

// ClampQuantity enforces the minimum of one item.
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ParseQuantity reads user input such as a form field.
func ParseQuantity(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1
	}
	return clampFloat(f)
}

func clampFloat(f float64) int {
	if math.IsNaN(f) || f < 1 {
		return 1
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
