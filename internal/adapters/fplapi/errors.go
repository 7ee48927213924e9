package fplapi

import (
	"errors"
	"fmt"
)

// ErrUpstream is matched by every error returned from a failed request.
var ErrUpstream = errors.New("upstream request failed")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.URL)
}

// Is lets errors.Is(err, ErrUpstream) match status errors.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpstream
}
