package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// ClassCreateRequest carries a new class definition.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	// TeacherID is honoured on the admin route only; teachers always own the
	// classes they create.
	TeacherID *uint `json:"teacher_id"`
}

// ClassUpdateRequest carries partial class changes.
type ClassUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	TeacherID   *uint   `json:"teacher_id"`
}

// ClassResponse is the list/detail projection of a class.
type ClassResponse struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	TeacherID    uint          `json:"teacher_id"`
	TeacherName  string        `json:"teacher_name,omitempty"`
	StudentCount int64         `json:"student_count"`
	Students     []UserResponse `json:"students,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewClassResponse maps a class model, attaching the roster size.
func NewClassResponse(class models.Class, studentCount int64) ClassResponse {
	return ClassResponse{
		ID:           class.ID,
		Name:         class.Name,
		Description:  class.Description,
		TeacherID:    class.TeacherID,
		TeacherName:  class.Teacher.Name,
		StudentCount: studentCount,
		CreatedAt:    class.CreatedAt,
	}
}
