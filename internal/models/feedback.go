package models

import "time"

// Feedback is a message a student sends to a teacher, optionally answered.
type Feedback struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Reply     string     `gorm:"type:text" json:"reply"`
	RepliedAt *time.Time `json:"replied_at"`
	StudentID uint       `gorm:"not null;index" json:"student_id"`
	Student   User       `gorm:"foreignKey:StudentID" json:"-"`
	TeacherID uint       `gorm:"not null;index" json:"teacher_id"`
	Teacher   User       `gorm:"foreignKey:TeacherID" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
