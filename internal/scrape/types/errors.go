package types

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// AuthenticationError means the API rejected the session, usually because the
// copied browser cookies expired. Refresh the cookies; retrying will not help.
type AuthenticationError struct {
	URL    string
	Status int
	Reason string
	Stack  []byte
}

func NewAuthenticationError(url string, status int, reason string) *AuthenticationError {
	return &AuthenticationError{
		URL:    url,
		Status: status,
		Reason: reason,
		Stack:  goerrors.New(reason).Stack(),
	}
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (status=%d url=%s): %s; refresh session cookies", e.Status, e.URL, e.Reason)
}

func (e *AuthenticationError) StackTrace() []byte { return e.Stack }

// NetworkError covers transport failures and unexpected statuses.
type NetworkError struct {
	Op     string
	URL    string
	Status int // 0 when no response was received
	Err    error
	Stack  []byte
}

func NewNetworkError(op, url string, status int, err error) *NetworkError {
	return &NetworkError{
		Op:     op,
		URL:    url,
		Status: status,
		Err:    err,
		Stack:  stackOf(err),
	}
}

func stackOf(err error) []byte {
	if err == nil {
		return goerrors.New("network error").Stack()
	}
	return goerrors.Wrap(err, 2).Stack()
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) StackTrace() []byte { return e.Stack }

// SchemaMismatchError is returned per record when required fields are absent.
// The record is skipped, the run continues.
type SchemaMismatchError struct {
	Ref     string // whatever identifies the raw record (external path, title)
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for %q: missing %s", e.Ref, strings.Join(e.Missing, ", "))
}
