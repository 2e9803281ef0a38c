package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound          = errors.New("document not found")
	ErrReadOnly          = errors.New("repository is in read-only mode")
	ErrInvalidID         = errors.New("document ID cannot be empty")
	ErrTransactionClosed = errors.New("transaction closed")
	ErrUnsupported       = errors.New("operation not supported by repository")
	ErrUnknownField      = errors.New("field key is not part of the taxonomy")
)

// DataAccessError reports a failed read or write against the backing store.
type DataAccessError struct {
	Op  string // "read", "write", "list", "commit"
	ID  string // document ID or collection, may be empty
	Err error
}

func (e *DataAccessError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// NewDataAccessError wraps err, returning nil when err is nil.
func NewDataAccessError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, ID: id, Err: err}
}
