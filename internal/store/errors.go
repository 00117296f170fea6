package store

import "fmt"

// StorageUnavailableError wraps persistence failures (locked/unwritable
// database, full disk). Views surface it to the operator directly; there is
// no background retry path in a single-operator tool.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Op, e.Err)
}

func (e StorageUnavailableError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return StorageUnavailableError{Op: op, Err: err}
}
