package http

import (
	"time"

	"github.com/ian-yc-kim/ca-events-svc/internal/domain"
	"github.com/ian-yc-kim/ca-events-svc/internal/timeutil"
)

type createEventRequest struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	StartTime   *timeutil.UTCTime `json:"start_time" validate:"required"`
	EndTime     *timeutil.UTCTime `json:"end_time"`
}

type updateEventRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	StartTime   *timeutil.UTCTime `json:"start_time"`
	EndTime     *timeutil.UTCTime `json:"end_time"`
}

type eventResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	StartTime   timeutil.UTCTime  `json:"start_time"`
	EndTime     *timeutil.UTCTime `json:"end_time"`
	CreatedAt   timeutil.UTCTime  `json:"created_at"`
	UpdatedAt   timeutil.UTCTime  `json:"updated_at"`
}

type listEventsResponse struct {
	Items  []eventResponse `json:"items"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toEventResponse(event domain.Event) eventResponse {
	resp := eventResponse{
		ID:          event.ID.String(),
		Title:       event.Title,
		Description: event.Description,
		StartTime:   timeutil.UTCTime{Time: event.StartTime},
		CreatedAt:   timeutil.UTCTime{Time: event.CreatedAt},
		UpdatedAt:   timeutil.UTCTime{Time: event.UpdatedAt},
	}
	if event.EndTime != nil {
		resp.EndTime = &timeutil.UTCTime{Time: *event.EndTime}
	}
	return resp
}

func toTimePtr(t *timeutil.UTCTime) *time.Time {
	if t == nil {
		return nil
	}
	return &t.Time
}
