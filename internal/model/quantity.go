package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawQuantity holds the undecoded JSON value of a quantity field.
type RawQuantity json.RawMessage

// UnmarshalJSON keeps the raw bytes; interpretation happens in Int.
func (q *RawQuantity) UnmarshalJSON(data []byte) error {
	*q = append((*q)[:0], data...)
	return nil
}

// Int returns the quantity as a positive int. Anything other than a JSON
// integer literal greater than zero yields ErrInvalidQuantity, so 5.0, "5",
// true and null are all rejected.
func (q RawQuantity) Int() (int, error) {
	raw := bytes.TrimSpace(q)
	if len(raw) == 0 {
		return 0, ErrInvalidQuantity
	}
	if bytes.ContainsAny(raw, ".eE\"") {
		return 0, ErrInvalidQuantity
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, ErrInvalidQuantity
	}
	if err := ValidateQuantity(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateQuantity checks that a stock movement quantity is positive and
// no larger than MaxStockQuantity.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 || quantity > MaxStockQuantity {
		return ErrInvalidQuantity
	}
	return nil
}
