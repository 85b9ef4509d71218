package oracle

import "fmt"

// DuplicateBackendError is returned when a backend name is registered twice.
type DuplicateBackendError struct {
	Name string
}

func (e *DuplicateBackendError) Error() string {
	return fmt.Sprintf("backend %q already registered", e.Name)
}
