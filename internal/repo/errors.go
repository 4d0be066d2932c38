package repo

import "errors"

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrTransactionNotFound is returned when a transaction is not found in the repository.
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrInsufficientStock is returned when a stock adjustment would leave a negative stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicatedValueUnique is returned when a unique field (product name, username) is already taken.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	// ErrStatusConflict is returned when a transaction is no longer in the expected status.
	ErrStatusConflict = errors.New("transaction status conflict")
)
