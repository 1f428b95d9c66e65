package validation

import "fmt"

// ValidationError is raised on the first structural invariant violation
// found. The message is human-readable and safe to surface to the client
// as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Errorf builds a ValidationError the same way fmt.Errorf builds an error.
func Errorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
