// Package params parses the loosely typed query values shared by handlers.
package params

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// DateLayout is the wire format of dates.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar day.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ledger.NewValidationError("%s must be a date in YYYY-MM-DD format", field)
}

// OptionalDate parses value when it is not empty.
func OptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OptionalID parses a positive id when value is not empty.
func OptionalID(field, value string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return nil, ledger.NewValidationError("%s must be a positive integer", field)
	}
	return &id, nil
}

// IDList parses "1,2,3". Empty input is an empty list.
func IDList(field, value string) ([]int64, error) {
	var ids []int64
	for _, item := range strings.Split(value, ",") {
		id, err := OptionalID(field, item)
		if err != nil {
			return nil, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, nil
}

// OptionalInt parses a non-negative integer, zero when value is empty.
func OptionalInt(field, value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, ledger.NewValidationError("%s must be a non-negative integer", field)
	}
	return n, nil
}

// Amount converts a JSON number to a decimal rounded to cents.
func Amount(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

// OptionalAmount converts an optional JSON number.
func OptionalAmount(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	amount := decimal.NewFromFloat(*value)
	return &amount
}

// Number renders a decimal as a JSON number.
func Number(value decimal.Decimal) float64 {
	return value.InexactFloat64()
}

// OptionalNumber renders an optional decimal.
func OptionalNumber(value *decimal.Decimal) *float64 {
	if value == nil {
		return nil
	}
	n := value.InexactFloat64()
	return &n
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
