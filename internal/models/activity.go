package models

import "time"

// Activity status values. Status is set explicitly by the activity's creator;
// nothing advances it on a timer.
const (
	ActivityUpcoming  = "UPCOMING"
	ActivityOngoing   = "ONGOING"
	ActivityCompleted = "COMPLETED"
	ActivityCancelled = "CANCELLED"
)

// Activity type categories.
const (
	ActivityTypeLecture     = "LECTURE"
	ActivityTypeWorkshop    = "WORKSHOP"
	ActivityTypeSeminar     = "SEMINAR"
	ActivityTypeCompetition = "COMPETITION"
	ActivityTypeClub        = "CLUB"
	ActivityTypeVolunteer   = "VOLUNTEER"
	ActivityTypeSports      = "SPORTS"
	ActivityTypeCultural    = "CULTURAL"
	ActivityTypeOther       = "OTHER"
)

// Activity is a campus event students can register for.
type Activity struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Title               string    `gorm:"size:255;not null" json:"title"`
	Description         string    `gorm:"type:text" json:"description"`
	Location            string    `gorm:"size:255;not null" json:"location"`
	Organizer           string    `gorm:"size:255;not null" json:"organizer"`
	Type                string    `gorm:"size:32;not null" json:"type"`
	Status              string    `gorm:"size:16;not null;default:UPCOMING" json:"status"`
	StartTime           time.Time `gorm:"not null" json:"start_time"`
	EndTime             time.Time `gorm:"not null" json:"end_time"`
	MaxParticipants     int       `gorm:"not null" json:"max_participants"`
	CurrentParticipants int       `gorm:"not null;default:0" json:"current_participants"`
	CreatorID           uint      `gorm:"not null;index" json:"creator_id"`
	Creator             User      `gorm:"foreignKey:CreatorID" json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsFull reports whether registration has reached capacity.
func (a Activity) IsFull() bool {
	return a.CurrentParticipants >= a.MaxParticipants
}

// ValidActivityStatus reports whether the value is a known activity status.
func ValidActivityStatus(status string) bool {
	switch status {
	case ActivityUpcoming, ActivityOngoing, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// ValidActivityType reports whether the value is a known activity category.
func ValidActivityType(activityType string) bool {
	switch activityType {
	case ActivityTypeLecture, ActivityTypeWorkshop, ActivityTypeSeminar,
		ActivityTypeCompetition, ActivityTypeClub, ActivityTypeVolunteer,
		ActivityTypeSports, ActivityTypeCultural, ActivityTypeOther:
		return true
	}
	return false
}
