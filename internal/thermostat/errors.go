package thermostat

import "fmt"

// TransportError covers network failures, HTTP error statuses without a
// failure envelope, and undecodable bodies.
type TransportError struct {
	Path   string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError is returned when the endpoint answered with success=false.
type ApplicationError struct {
	Path    string
	Status  int
	Message string
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "success=false"
	}
	return fmt.Sprintf("api %s reported failure (status %d): %s", e.Path, e.Status, msg)
}
