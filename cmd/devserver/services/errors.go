package services

import "net/http"

// Error carries the HTTP status and error code a handler should answer with.
type Error struct {
	StatusCode int
	ErrorCode  string
	Cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "internal_error"
	}
	return e.ErrorCode
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func badRequest(code string, cause error) *Error {
	return &Error{StatusCode: http.StatusBadRequest, ErrorCode: code, Cause: cause}
}

func notFound(code string, cause error) *Error {
	return &Error{StatusCode: http.StatusNotFound, ErrorCode: code, Cause: cause}
}

func forbidden(cause error) *Error {
	return &Error{StatusCode: http.StatusForbidden, ErrorCode: "forbidden", Cause: cause}
}

func internal(code string, cause error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, ErrorCode: code, Cause: cause}
}
