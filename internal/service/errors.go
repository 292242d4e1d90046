package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

// Error carries a message that is safe to show to API callers together with
// its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// storeErr turns a missing record into ErrNotFound and marks everything else
// as a store failure.
func storeErr(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(notFoundMsg)
	}
	return fmt.Errorf("store: %w", err)
}

const (
	MsgMenuItemNotFound = "Menu item not found"
	MsgOrderNotFound    = "Order not found"
	MsgInvalidStatus    = "Invalid status provided."
)
