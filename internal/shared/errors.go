package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrLoggingSetup  = fmt.Errorf("logging setup failed")

	// Schema errors
	ErrUnknownTable    = fmt.Errorf("unknown table")
	ErrUnknownColumn   = fmt.Errorf("unknown column")
	ErrImmutableColumn = fmt.Errorf("column cannot be updated")

	// Store errors
	ErrNoRowsMatched       = fmt.Errorf("no rows matched")
	ErrConstraintViolation = fmt.Errorf("constraint violation")
	ErrStoreNotFound       = fmt.Errorf("store not found")
	ErrStoreNotRemoved     = fmt.Errorf("store could not be removed")

	// CSV errors
	ErrMalformedCSV = fmt.Errorf("malformed CSV")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
