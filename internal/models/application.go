package models

import "time"

// Application status values. PENDING is the only state a transition can leave;
// APPROVED and REJECTED are terminal. Cancellation deletes the row instead of
// recording a state.
const (
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"
)

// ClassApplication is a student's request to join a class.
type ClassApplication struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StudentID    uint       `gorm:"not null;index" json:"student_id"`
	Student      User       `gorm:"foreignKey:StudentID" json:"-"`
	ClassID      uint       `gorm:"not null;index" json:"class_id"`
	Class        Class      `gorm:"foreignKey:ClassID" json:"-"`
	Status       string     `gorm:"size:16;not null;default:PENDING" json:"status"`
	Message      string     `gorm:"type:text" json:"message"`
	RejectReason string     `gorm:"type:text" json:"reject_reason"`
	HandledAt    *time.Time `json:"handled_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPending reports whether the application can still be processed or cancelled.
func (a ClassApplication) IsPending() bool {
	return a.Status == ApplicationPending
}
