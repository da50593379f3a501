package client

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
	"github.com/tidwall/gjson"
)

// ErrorKind classifies API failures
type ErrorKind string

const (
	KindSetup   ErrorKind = "SETUP"
	KindNetwork ErrorKind = "NETWORK"
	KindHTTP    ErrorKind = "HTTP"
	KindDecode  ErrorKind = "DECODE"
)

const (
	msgNotFound    = "Resource not found"
	msgServerError = "Server error - please try again later"
	msgNoResponse  = "No response from server - check your internet connection"
	msgSetup       = "Error setting up request"
)

// APIError describes a failed call to the jobs API
type APIError struct {
	Kind        ErrorKind
	Op          string
	StatusCode  int
	Message     string            // server supplied "error" field, if any
	FieldErrors map[string]string // server supplied "errors" object, if any
	Err         error
	Stack       []byte
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindHTTP && e.Message != "":
		return fmt.Sprintf("%s: %s: status %d: %s", e.Op, e.Kind, e.StatusCode, e.Message)
	case e.Kind == KindHTTP:
		return fmt.Sprintf("%s: %s: status %d", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the server answered the request
func (e *APIError) HasResponse() bool {
	return e.Kind == KindHTTP
}

func newError(kind ErrorKind, op string, err error) *APIError {
	var stack []byte
	if err != nil {
		stack = goerrors.Wrap(err, 2).Stack()
	} else {
		stack = goerrors.New(op).Stack()
	}
	return &APIError{Kind: kind, Op: op, Err: err, Stack: stack}
}

// httpError builds an APIError from a non-2xx response body
func httpError(op string, status int, body []byte) *APIError {
	e := newError(KindHTTP, op, nil)
	e.StatusCode = status

	if !gjson.ValidBytes(body) {
		return e
	}
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
		e.Message = msg.String()
	}
	if fields := gjson.GetBytes(body, "errors"); fields.IsObject() {
		e.FieldErrors = make(map[string]string)
		fields.ForEach(func(key, value gjson.Result) bool {
			e.FieldErrors[key.String()] = value.String()
			return true
		})
	}
	return e
}

// Describe converts an error from this package into a message fit for a toast.
// The server's own message wins; otherwise the status code or failure kind decides.
func Describe(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return msgSetup
	}

	switch apiErr.Kind {
	case KindHTTP:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return msgNotFound
		case http.StatusInternalServerError:
			return msgServerError
		default:
			return fmt.Sprintf("Error %d: Something went wrong", apiErr.StatusCode)
		}
	case KindNetwork:
		return msgNoResponse
	case KindDecode:
		return msgServerError
	default:
		return msgSetup
	}
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindHTTP && apiErr.StatusCode == http.StatusNotFound
}
