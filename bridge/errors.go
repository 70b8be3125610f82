package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingURL is returned when a statement is dispatched to an endpoint without a URL.
	ErrMissingURL = errors.New("database URL is missing")

	// ErrInvalidIdentifier is returned when a table or column name is not a plain SQL identifier.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrEmptyPatch is returned by Update when there is nothing to set.
	ErrEmptyPatch = errors.New("update requires at least one column")

	// ErrMalformedResponse is wrapped by TransportError when the batch envelope can't be read.
	ErrMalformedResponse = errors.New("invalid response format from remote SQL endpoint")

	// ErrInvalidCredentials is returned by SignInWithPassword.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TransportError reports a failed round-trip to the remote SQL endpoint:
// a network failure, a non-2xx status or an unreadable batch envelope.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		return fmt.Sprintf("remote sql %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote sql %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote sql %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatementError carries the engine's message for the first statement of a batch that failed.
type StatementError struct {
	Endpoint string
	Index    int
	SQL      string
	Message  string
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d failed: %s", e.Index, e.Message)
}

// RestoreError identifies which table and batch of a restore failed.
// Batch is -1 when the scoped delete that precedes the inserts failed.
type RestoreError struct {
	Table string
	Batch int
	Err   error
}

func (e *RestoreError) Error() string {
	if e.Batch < 0 {
		return fmt.Sprintf("restore %s: clearing existing rows: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("restore %s: batch %d: %v", e.Table, e.Batch, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
