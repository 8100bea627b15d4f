package model

import "fmt"

// Domain errors. All are recoverable by the caller; branch with errors.Is.
var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrDuplicateKey       = fmt.Errorf("duplicate key")
	ErrInsufficientStock  = fmt.Errorf("insufficient stock")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
)
