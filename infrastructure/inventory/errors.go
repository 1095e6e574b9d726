package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrLoginRequired = errors.New("inventory session expired or not logged in")
	ErrLoginFailed   = errors.New("invalid username or password")
)

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EndpointError is a response outside the 2xx range.
type EndpointError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *EndpointError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}
