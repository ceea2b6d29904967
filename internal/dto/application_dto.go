package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// ApplyRequest carries a student's join request.
type ApplyRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// ProcessApplicationRequest carries a single approve/reject decision.
type ProcessApplicationRequest struct {
	Status       string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	RejectReason string `json:"reject_reason" validate:"max=2000"`
}

// BatchProcessRequest applies one decision to a list of applications.
type BatchProcessRequest struct {
	ApplicationIDs []uint `json:"application_ids" validate:"required,min=1"`
	Action         string `json:"action" validate:"required,oneof=approve reject"`
	RejectReason   string `json:"reject_reason" validate:"max=2000"`
}

// BatchItemResult reports the outcome for one application in a batch.
type BatchItemResult struct {
	ID      uint   `json:"id"`
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchProcessResponse aggregates per-item outcomes.
type BatchProcessResponse struct {
	Results        []BatchItemResult `json:"results"`
	TotalProcessed int               `json:"total_processed"`
}

// ApplicationResponse is the projection of a class application.
type ApplicationResponse struct {
	ID           uint       `json:"id"`
	StudentID    uint       `json:"student_id"`
	StudentName  string     `json:"student_name,omitempty"`
	ClassID      uint       `json:"class_id"`
	ClassName    string     `json:"class_name,omitempty"`
	Status       string     `json:"status"`
	Message      string     `json:"message,omitempty"`
	RejectReason string     `json:"reject_reason,omitempty"`
	HandledAt    *time.Time `json:"handled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewApplicationResponse maps an application model.
func NewApplicationResponse(application models.ClassApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:           application.ID,
		StudentID:    application.StudentID,
		StudentName:  application.Student.Name,
		ClassID:      application.ClassID,
		ClassName:    application.Class.Name,
		Status:       application.Status,
		Message:      application.Message,
		RejectReason: application.RejectReason,
		HandledAt:    application.HandledAt,
		CreatedAt:    application.CreatedAt,
	}
}

// NewApplicationResponseSlice maps a slice of application models.
func NewApplicationResponseSlice(applications []models.ClassApplication) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}
	return responses
}
