package entity

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound a special row resolved to no cost under any strategy.
var ErrNotFound = errors.New("no cost match")

// ErrDenylistedRemember the operator asked to remember a mapping for a
// denylisted product. The ledger update still proceeds; only the memory
// write is refused.
var ErrDenylistedRemember = errors.New("denylisted product, mapping not remembered")

// MissingFieldError a required column is absent from an uploaded table.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("『%s』缺少關鍵欄位：%s", e.Table, e.Field)
}

// StoreError wraps an external store read/write failure so the delivery
// layer can report it without committing a partial mutation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
