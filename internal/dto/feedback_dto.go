package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// FeedbackCreateRequest carries a student message to a teacher.
type FeedbackCreateRequest struct {
	TeacherID uint   `json:"teacher_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=4000"`
}

// FeedbackReplyRequest carries a teacher's answer.
type FeedbackReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=4000"`
}

// FeedbackResponse is the projection of a feedback thread.
type FeedbackResponse struct {
	ID          uint       `json:"id"`
	Content     string     `json:"content"`
	Reply       string     `json:"reply,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	StudentID   uint       `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	TeacherID   uint       `json:"teacher_id"`
	TeacherName string     `json:"teacher_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewFeedbackResponse maps a feedback model.
func NewFeedbackResponse(feedback models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          feedback.ID,
		Content:     feedback.Content,
		Reply:       feedback.Reply,
		RepliedAt:   feedback.RepliedAt,
		StudentID:   feedback.StudentID,
		StudentName: feedback.Student.Name,
		TeacherID:   feedback.TeacherID,
		TeacherName: feedback.Teacher.Name,
		CreatedAt:   feedback.CreatedAt,
	}
}

// NewFeedbackResponseSlice maps a slice of feedback models.
func NewFeedbackResponseSlice(feedbacks []models.Feedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		responses = append(responses, NewFeedbackResponse(feedback))
	}
	return responses
}
