package models

import "time"

// Learning goal status values.
const (
	GoalInProgress = "IN_PROGRESS"
	GoalCompleted  = "COMPLETED"
	GoalOverdue    = "OVERDUE"
)

// LearningGoal is a target a teacher sets for one student.
type LearningGoal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:16;not null;default:IN_PROGRESS" json:"status"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	DueDate     *time.Time `json:"due_date"`
	TeacherID   uint       `gorm:"not null;index" json:"teacher_id"`
	Teacher     User       `gorm:"foreignKey:TeacherID" json:"-"`
	StudentID   uint       `gorm:"not null;index" json:"student_id"`
	Student     User       `gorm:"foreignKey:StudentID" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidGoalStatus reports whether the value is a known goal status.
func ValidGoalStatus(status string) bool {
	switch status {
	case GoalInProgress, GoalCompleted, GoalOverdue:
		return true
	}
	return false
}
