package models

import "time"

// Participation status values. REGISTERED and CANCELLED alternate as a user
// registers and withdraws; COMPLETED is terminal.
const (
	ParticipationRegistered = "REGISTERED"
	ParticipationCompleted  = "COMPLETED"
	ParticipationCancelled  = "CANCELLED"
)

// ActivityParticipation tracks one user's registration lifecycle against one
// activity. A (user, activity) pair owns at most one row: re-registering after
// cancellation resets this row rather than inserting another.
type ActivityParticipation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_activity" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	ActivityID   uint       `gorm:"not null;uniqueIndex:idx_user_activity" json:"activity_id"`
	Activity     Activity   `gorm:"foreignKey:ActivityID" json:"-"`
	Status       string     `gorm:"size:16;not null" json:"status"`
	RegisterTime *time.Time `json:"register_time"`
	CompleteTime *time.Time `json:"complete_time"`
	CancelTime   *time.Time `json:"cancel_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
