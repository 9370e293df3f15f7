package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// StatusCode maps the parsed code to an HTTP status.
func (i ErrorInfo) StatusCode() int {
	switch i.Code {
	case ResourceNotFound:
		return http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict:
		return http.StatusConflict
	case ValidationRequired, ValidationInvalidInput, ReviewInvalidRating:
		return http.StatusBadRequest
	case InternalExternalAPI:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ParseError maps store and transport failures to a structured response
// without leaking driver internals to the caller.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "That record already exists"}
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "A related record is missing or still referenced"}
	}
	if strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 0 and 10"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	// network / connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unreachable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong, please try again later",
	}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "movie"):
		return "movie not found"
	case strings.Contains(contextLower, "restaurant"):
		return "restaurant not found"
	case strings.Contains(contextLower, "book"):
		return "book not found"
	case strings.Contains(contextLower, "review"):
		return "review not found"
	case strings.Contains(contextLower, "user"):
		return "user not found"
	}
	return "The requested record was not found"
}
