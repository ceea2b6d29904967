package models

import "time"

// Evaluation is a teacher's written assessment of a student.
type Evaluation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Grade     string    `gorm:"size:16" json:"grade"`
	TeacherID uint      `gorm:"not null;index" json:"teacher_id"`
	Teacher   User      `gorm:"foreignKey:TeacherID" json:"-"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
