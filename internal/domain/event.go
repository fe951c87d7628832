package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a calendar entry. All timestamps are UTC.
type Event struct {
	ID          uuid.UUID
	Title       string
	Description *string
	StartTime   time.Time
	// EndTime is optional; when present it is strictly after StartTime.
	EndTime   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 2000
)
