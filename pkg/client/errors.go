package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoContent is returned when decoding an outcome that carried no body.
var ErrNoContent = errors.New("no content")

// HTTPError represents a non-2xx HTTP response from the API.
// Message is the server-supplied message, or the status text when the body
// carried none.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// TransportError means no response was obtained at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a successful response could not be decoded or failed
// validation.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsAuthRejection reports whether err is a 401 or 403 from the API.
func IsAuthRejection(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "could not reach the server, check your connection"
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return "invalid response from server"
	}
	return err.Error()
}
