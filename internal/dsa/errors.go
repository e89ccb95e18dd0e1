package dsa

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTransient marks transport faults that are safe to retry.
var ErrTransient = errors.New("transient service fault")

// ServiceError is a fault reported by the remote service itself.
type ServiceError struct {
	Service string
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s: status %s: %s", e.Service, e.Code, e.Message)
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

type transientError struct {
	cause error
}

func (e *transientError) Error() string { return e.cause.Error() }

func (e *transientError) Is(target error) bool { return target == ErrTransient }

func (e *transientError) Unwrap() error { return e.cause }

// Transient wraps err so IsTransient reports true.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{cause: err}
}
