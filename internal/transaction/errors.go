package transaction

import "errors"

var (
	ErrNotFound            = errors.New("transaction not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrPriceNotFound       = errors.New("no branch price for menu")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrValidation          = errors.New("validation failed")
	ErrAlreadyCompleted    = errors.New("transaction already completed")
)
