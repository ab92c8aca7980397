package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrStorageUnavailable = NewDomainError("STORAGE_UNAVAILABLE", "Local storage cannot be opened or written")
	ErrSubmissionFailed   = NewDomainError("SUBMISSION_FAILED", "Sale submission to the authoritative store failed")
	ErrSyncInProgress     = NewDomainError("SYNC_IN_PROGRESS", "A sync run is already in progress")
)
