package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnintelligible maps the remote 400: the request was not understood.
	// Surfaced to users as its own chat message, not a generic failure.
	ErrUnintelligible = errors.New("recommend: request not understood")

	// ErrNoMatch maps the remote 404: no candidates were found.
	ErrNoMatch = errors.New("recommend: no results")
)

// RemoteError is the uniform failure for transport errors and any non-2xx
// status not otherwise enumerated. Callers own user-facing messaging.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recommend: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("recommend: %s failed: upstream status %d", e.Op, e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }
