package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// GoalCreateRequest carries a new learning goal for one student.
type GoalCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4000"`
	StudentID   uint   `json:"student_id" validate:"required"`
	DueDate     string `json:"due_date" validate:"omitempty"`
}

// GoalUpdateRequest carries partial goal changes.
type GoalUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Status      *string `json:"status"`
	Progress    *int    `json:"progress" validate:"omitempty,min=0,max=100"`
	DueDate     *string `json:"due_date"`
}

// GoalResponse is the projection of a learning goal.
type GoalResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	TeacherID   uint       `json:"teacher_id"`
	TeacherName string     `json:"teacher_name,omitempty"`
	StudentID   uint       `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewGoalResponse maps a goal model.
func NewGoalResponse(goal models.LearningGoal) GoalResponse {
	return GoalResponse{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		Status:      goal.Status,
		Progress:    goal.Progress,
		DueDate:     goal.DueDate,
		TeacherID:   goal.TeacherID,
		TeacherName: goal.Teacher.Name,
		StudentID:   goal.StudentID,
		StudentName: goal.Student.Name,
		CreatedAt:   goal.CreatedAt,
	}
}

// NewGoalResponseSlice maps a slice of goal models.
func NewGoalResponseSlice(goals []models.LearningGoal) []GoalResponse {
	responses := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		responses = append(responses, NewGoalResponse(goal))
	}
	return responses
}
