package content

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")

	// ErrThrottled is returned when a public contact submission exceeds the
	// per-ip daily limit.
	ErrThrottled = errors.New("throttled")
)

// OpError mirrors the identity package's typed operation error.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool     { return errors.Is(err, ErrConflict) }
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
func IsThrottled(err error) bool    { return errors.Is(err, ErrThrottled) }
