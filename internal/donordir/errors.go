package donordir

import "fmt"

// EmptyNameError means the input trimmed to nothing.
type EmptyNameError struct{}

func (EmptyNameError) Error() string { return "donor name is empty" }

// DuplicateDonorError means another donor already normalizes to the same
// identity (case-insensitive, whitespace-trimmed).
type DuplicateDonorError struct {
	Name string
}

func (e DuplicateDonorError) Error() string {
	return fmt.Sprintf("donor already exists: %s", e.Name)
}

// NotFoundError signals stale state: the referenced donor is no longer in
// storage. Callers should refresh their view and retry.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("donor not found: %s", e.Name)
}
