package donations

import "fmt"

// ValidationError rejects a submission or weight entry: missing donor,
// missing required temperature, or a non-positive weight.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// NotFoundError signals a stale donation reference on delete.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("donation not found: %s", e.ID)
}
