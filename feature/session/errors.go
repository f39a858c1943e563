package session

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when the endpoint does not answer.
	ErrUnreachable = errors.New("cmis endpoint unreachable")
	// ErrRepositoryNotFound is returned when the endpoint does not host the repository.
	ErrRepositoryNotFound = errors.New("repository not found")
)

// RemoteError is a non-success answer from the repository.
type RemoteError struct {
	Status    int
	Exception string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cmis %s (%d): %s", e.Exception, e.Status, e.Message)
}

// IsConflict reports whether err is a 409 answer, e.g. creating a type that exists.
func IsConflict(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == 409
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == 404
}
