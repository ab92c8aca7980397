package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Capture and synchronization error codes
const (
	// ErrCodeStorageUnavailable is used when the local durable queue
	// cannot be opened or written
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
	// ErrCodeSubmissionFailed is used when a sale could not be delivered
	// to the authoritative store
	ErrCodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
	// ErrCodeSyncInProgress is used when a sync run is already executing
	ErrCodeSyncInProgress = "ERR_SYNC_IN_PROGRESS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeStorageUnavailable: http.StatusServiceUnavailable,
	ErrCodeSubmissionFailed:   http.StatusBadGateway,
	ErrCodeSyncInProgress:     http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for unmapped codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping translates domain error codes to API error codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"STORAGE_UNAVAILABLE": ErrCodeStorageUnavailable,
	"SUBMISSION_FAILED":   ErrCodeSubmissionFailed,
	"SYNC_IN_PROGRESS":    ErrCodeSyncInProgress,
}

// NormalizeErrorCode converts a domain error code to its API error code.
// Domain validation codes (INVALID_QUANTITY, INVALID_PRICE, ...) all map
// to ErrCodeInvalidInput; unknown codes pass through prefixed so they stay
// distinguishable in responses.
func NormalizeErrorCode(domainCode string) string {
	if code, ok := domainCodeMapping[domainCode]; ok {
		return code
	}
	if len(domainCode) >= 8 && domainCode[:8] == "INVALID_" {
		return ErrCodeInvalidInput
	}
	return "ERR_" + domainCode
}
