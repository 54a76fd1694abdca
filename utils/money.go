package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizePrice brings a decimal-string amount into the gateway's expected
// form: no trailing zeros, no dangling separator ("0.50" -> "0.5",
// "10." -> "10"). The value itself is never re-scaled.
func NormalizePrice(price string) string {
	if !strings.Contains(price, ".") {
		return price
	}
	trimmed := strings.TrimRight(price, "0")
	return strings.TrimSuffix(trimmed, ".")
}

// ValidatePrice reports whether the string is a positive decimal amount.
func ValidatePrice(price string) error {
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %v", price, err)
	}
	if f <= 0 {
		return fmt.Errorf("price must be positive, got %q", price)
	}
	return nil
}
