package errcodes

import (
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error. The message is fixed so that nothing about the
// underlying filesystem failure reaches the client.
func NotFound() error {
	return &Error{
		http.StatusNotFound,
		"The resource you are requesting does not exist",
		"not_found",
	}
}

// Internal returns the 500 error that every unexpected failure is reported as.
func Internal() error {
	return &Error{
		http.StatusInternalServerError,
		"Internal Server Error",
		"internal_server_error",
	}
}
