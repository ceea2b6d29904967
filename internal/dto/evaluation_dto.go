package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// EvaluationCreateRequest carries a teacher's assessment of a student.
type EvaluationCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=4000"`
	Grade     string `json:"grade" validate:"max=16"`
}

// EvaluationUpdateRequest carries partial evaluation changes.
type EvaluationUpdateRequest struct {
	Content *string `json:"content" validate:"omitempty,max=4000"`
	Grade   *string `json:"grade" validate:"omitempty,max=16"`
}

// EvaluationResponse is the projection of an evaluation.
type EvaluationResponse struct {
	ID          uint      `json:"id"`
	Content     string    `json:"content"`
	Grade       string    `json:"grade,omitempty"`
	StudentID   uint      `json:"student_id"`
	TeacherID   uint      `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvaluationResponse maps an evaluation model.
func NewEvaluationResponse(evaluation models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:          evaluation.ID,
		Content:     evaluation.Content,
		Grade:       evaluation.Grade,
		StudentID:   evaluation.StudentID,
		TeacherID:   evaluation.TeacherID,
		TeacherName: evaluation.Teacher.Name,
		CreatedAt:   evaluation.CreatedAt,
	}
}

// NewEvaluationResponseSlice maps a slice of evaluation models.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}
	return responses
}
