package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a field fails shape or length constraints.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned for any failed login. It deliberately
	// does not distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidSession is returned when a token is malformed or its
	// session binding no longer exists.
	ErrInvalidSession = errors.New("invalid or expired session")
	// ErrAccessDenied is returned on a role or ownership mismatch.
	ErrAccessDenied = errors.New("access denied")
	// ErrBookNotFound is returned when a book id does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrBorrowNotFound is returned when a borrow id does not exist.
	ErrBorrowNotFound = errors.New("borrow not found")
	// ErrBookUnavailable is returned when borrowing a book that is out on loan.
	ErrBookUnavailable = errors.New("book is currently not available")
	// ErrAlreadyReturned is returned when returning a borrow a second time.
	ErrAlreadyReturned = errors.New("borrow already returned")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_SESSION")
	case errors.Is(err, ErrAccessDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrBookNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOK_NOT_FOUND")
	case errors.Is(err, ErrBorrowNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BORROW_NOT_FOUND")
	case errors.Is(err, ErrBookUnavailable):
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOK_UNAVAILABLE")
	case errors.Is(err, ErrAlreadyReturned):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_RETURNED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
