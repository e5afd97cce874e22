package middlewares

import (
	"errors"
	"fmt"
)

// PanicError is returned by Recover for a recovered panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts a PanicError from err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}
