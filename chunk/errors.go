package chunk

import "errors"

var (
	// ErrInvalidBudget indicates a non-positive chunk size budget.
	ErrInvalidBudget = errors.New("chunk budget must be greater than 0")

	// ErrInvalidOverlap indicates a negative overlap or one that swallows the budget.
	ErrInvalidOverlap = errors.New("invalid chunk overlap")

	// ErrInvalidUnit indicates an unrecognized size unit.
	ErrInvalidUnit = errors.New("invalid chunk size unit")
)
