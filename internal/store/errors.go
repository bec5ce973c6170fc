package store

import (
	"errors"
	"fmt"

	"github.com/2beens/fittrack/pkg"
)

var (
	ErrTableMissing  = errors.New("table missing")
	ErrDayNotFound   = errors.New("day record not found")
	ErrPlanNotFound  = errors.New("plan not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// CodeOffline marks errors where postgres could not be reached at all.
const CodeOffline = "offline"

// StoreError is the single error shape callers of the store see.
// Code holds the SQLSTATE when there is one, or CodeOffline.
type StoreError struct {
	Message string
	Code    string
	Table   string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Message, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Offline() bool {
	return e.Code == CodeOffline
}

// Normalize wraps err into a *StoreError. Sentinel lookups like
// ErrDayNotFound pass through untouched, as do errors already normalized.
func Normalize(message, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDayNotFound) || errors.Is(err, ErrPlanNotFound) || errors.Is(err, ErrUserNotFound) {
		return err
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	se := &StoreError{
		Message: message,
		Table:   table,
		Code:    pkg.PgErrorCode(err),
		Err:     err,
	}
	switch {
	case pkg.IsUndefinedTableError(err):
		se.Err = fmt.Errorf("%w: %w", ErrTableMissing, err)
	case se.Code == "" && pkg.IsConnectionError(err):
		se.Code = CodeOffline
	}
	return se
}

// IsTableMissing reports whether err comes from a missing relation.
func IsTableMissing(err error) bool {
	return errors.Is(err, ErrTableMissing)
}

func IsOffline(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Offline()
}

// Callbacks observe every store write. Any of them may be nil.
type Callbacks struct {
	OnSaving  func(op string)
	OnSuccess func(op string)
	OnError   func(op string, err error)
}

func (c Callbacks) saving(op string) {
	if c.OnSaving != nil {
		c.OnSaving(op)
	}
}

func (c Callbacks) success(op string) {
	if c.OnSuccess != nil {
		c.OnSuccess(op)
	}
}

func (c Callbacks) failed(op string, err error) {
	if c.OnError != nil {
		c.OnError(op, err)
	}
}
