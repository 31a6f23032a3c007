package httpsource

import (
	"errors"
	"fmt"
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents bodies that are not a JSON array of items.
	ErrorClassDecode ErrorClass = "decode"
)

// ErrNotArray is returned when a page body is not a JSON array.
var ErrNotArray = errors.New("page body is not a JSON array")

// StatusError is returned for upstream responses with status >= 400
// (other than 404, which is an empty page).
type StatusError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Page       int
	Size       int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s error (status %d) for page=%d size=%d: %s",
		e.Class, e.StatusCode, e.Page, e.Size, e.Message)
}

// classifyStatus maps an HTTP status to an ErrorClass.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}
