package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// View state errors
	ErrNotFound    = fmt.Errorf("not found")
	ErrInvalidPath = fmt.Errorf("invalid view path")

	// Reorder errors
	ErrNoOpMove   = fmt.Errorf("move target equals source")
	ErrDragActive = fmt.Errorf("drag session already active")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrBackend            = fmt.Errorf("backend error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
