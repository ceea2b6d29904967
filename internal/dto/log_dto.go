package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// SystemLogResponse is the projection of one audit record.
type SystemLogResponse struct {
	ID            uint           `json:"id"`
	OperationType string         `json:"operation_type"`
	Detail        string         `json:"detail"`
	UserID        *uint          `json:"user_id,omitempty"`
	UserRole      string         `json:"user_role,omitempty"`
	IPAddress     string         `json:"ip_address,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewSystemLogResponse maps an audit record.
func NewSystemLogResponse(entry models.SystemLog) SystemLogResponse {
	return SystemLogResponse{
		ID:            entry.ID,
		OperationType: entry.OperationType,
		Detail:        entry.Detail,
		UserID:        entry.UserID,
		UserRole:      entry.UserRole,
		IPAddress:     entry.IPAddress,
		Metadata:      entry.Metadata,
		CreatedAt:     entry.CreatedAt,
	}
}

// NewSystemLogResponseSlice maps a slice of audit records.
func NewSystemLogResponseSlice(entries []models.SystemLog) []SystemLogResponse {
	responses := make([]SystemLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewSystemLogResponse(entry))
	}
	return responses
}

// UploadResponse reports a stored avatar.
type UploadResponse struct {
	URL string `json:"url"`
}
