package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeStorageUnavailable, http.StatusServiceUnavailable},
		{ErrCodeSubmissionFailed, http.StatusBadGateway},
		{ErrCodeSyncInProgress, http.StatusConflict},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domainCode string
		expected   string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"STORAGE_UNAVAILABLE", ErrCodeStorageUnavailable},
		{"SUBMISSION_FAILED", ErrCodeSubmissionFailed},
		{"SYNC_IN_PROGRESS", ErrCodeSyncInProgress},
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
		{"INVALID_PRICE", ErrCodeInvalidInput},
		{"INVALID_BUSINESS", ErrCodeInvalidInput},
		{"SOMETHING_ELSE", "ERR_SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.domainCode, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.domainCode))
		})
	}
}

func TestErrorResponseShape(t *testing.T) {
	response := NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-123")

	assert.False(t, response.Success)
	assert.Nil(t, response.Data)
	assert.Equal(t, ErrCodeNotFound, response.Error.Code)
	assert.Equal(t, "req-123", response.Error.RequestID)
}
