package catalog

import "fmt"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog: server returned status %d", e.Status)
	}
	return fmt.Sprintf("catalog: server returned status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a StatusError with status 404.
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Status == 404
}

// IsConflict reports whether err is a StatusError with status 409.
func IsConflict(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Status == 409
}
