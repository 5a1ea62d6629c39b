// ABOUTME: ServiceError wraps failures from external cognitive services
// ABOUTME: Callers match with errors.As to tell collaborator failures from programmer errors

package cognitive

import "fmt"

// ServiceError reports a failed call to an external service.
type ServiceError struct {
	Service string // "classifier", "translator", "sentiment"
	Op      string
	Status  int // HTTP status when the service answered, else 0
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Service, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
