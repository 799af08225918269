package utils

import "net/http"

// APIError carries the HTTP status a failure maps to, so controllers can pass
// store and service errors straight to RespondError without re-mapping them.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ValidationError -> client-supplied data fails a precondition (400).
func ValidationError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NotFoundError -> a referenced id does not exist (404).
func NotFoundError(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: message}
}

// ConflictError -> a concurrent write invalidated a precondition between the
// check and the write (409).
func ConflictError(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}
