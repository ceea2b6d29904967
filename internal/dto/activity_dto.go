package dto

import (
	"time"

	"github.com/lentera-labs/campus-api/internal/models"
)

// ActivityCreateRequest carries a new activity definition.
type ActivityCreateRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Description     string `json:"description" validate:"max=4000"`
	Location        string `json:"location" validate:"required,max=255"`
	Organizer       string `json:"organizer" validate:"required,max=255"`
	Type            string `json:"type" validate:"required"`
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	MaxParticipants int    `json:"max_participants" validate:"required,min=1"`
}

// ActivityUpdateRequest carries partial activity changes. Status is updated
// here as well: activity status is manual-only, nothing advances it by time.
type ActivityUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=4000"`
	Location        *string `json:"location" validate:"omitempty,max=255"`
	Organizer       *string `json:"organizer" validate:"omitempty,max=255"`
	Type            *string `json:"type"`
	Status          *string `json:"status"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	MaxParticipants *int    `json:"max_participants" validate:"omitempty,min=1"`
}

// ActivityResponse is the projection of an activity, optionally annotated
// with the requesting user's participation status.
type ActivityResponse struct {
	ID                  uint      `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Location            string    `json:"location"`
	Organizer           string    `json:"organizer"`
	Type                string    `json:"type"`
	Status              string    `json:"status"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	CreatorID           uint      `json:"creator_id"`
	CreatorName         string    `json:"creator_name,omitempty"`
	ParticipationStatus string    `json:"participation_status,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewActivityResponse maps an activity model.
func NewActivityResponse(activity models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                  activity.ID,
		Title:               activity.Title,
		Description:         activity.Description,
		Location:            activity.Location,
		Organizer:           activity.Organizer,
		Type:                activity.Type,
		Status:              activity.Status,
		StartTime:           activity.StartTime,
		EndTime:             activity.EndTime,
		MaxParticipants:     activity.MaxParticipants,
		CurrentParticipants: activity.CurrentParticipants,
		CreatorID:           activity.CreatorID,
		CreatorName:         activity.Creator.Name,
		CreatedAt:           activity.CreatedAt,
	}
}

// NewActivityResponseSlice maps a slice of activity models.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}
	return responses
}
