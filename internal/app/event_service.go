package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ian-yc-kim/ca-events-svc/internal/clock"
	"github.com/ian-yc-kim/ca-events-svc/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error)
}

type EventService struct {
	repo         EventRepository
	clock        clock.Clock
	log          *logrus.Logger
	defaultLimit int
	maxLimit     int
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func NewEventService(repo EventRepository, clk clock.Clock, opts ...EventServiceOption) *EventService {
	svc := &EventService{
		repo:         repo,
		clock:        clk,
		log:          logrus.StandardLogger(),
		defaultLimit: defaultPageLimit,
		maxLimit:     maxPageLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type EventServiceOption func(*EventService)

// WithPaginationLimits overrides the default and maximum page sizes.
func WithPaginationLimits(defaultLimit, maxLimit int) EventServiceOption {
	return func(s *EventService) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit >= s.defaultLimit {
			s.maxLimit = maxLimit
		}
	}
}

// WithLogger overrides the logger used for mutation logging.
func WithLogger(log *logrus.Logger) EventServiceOption {
	return func(s *EventService) {
		if log != nil {
			s.log = log
		}
	}
}

type CreateEventInput struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     *time.Time
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if err := validateTitle(in.Title); err != nil {
		return domain.Event{}, err
	}
	if err := validateDescription(in.Description); err != nil {
		return domain.Event{}, err
	}
	if in.StartTime.IsZero() {
		return domain.Event{}, domain.ErrStartTimeRequired
	}
	if err := validateEndAfterStart(in.StartTime, in.EndTime); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime.UTC(),
		EndTime:     toUTC(in.EndTime),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	s.log.WithFields(logrus.Fields{"event_id": created.ID, "title": created.Title}).Info("event created")
	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return s.repo.GetEvent(ctx, id)
}

type UpdateEventInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
}

func (in UpdateEventInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.StartTime == nil && in.EndTime == nil
}

// UpdateEvent applies a partial update. Nil fields are left untouched; the
// end-after-start rule is checked against the merged state.
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, in UpdateEventInput) (domain.Event, error) {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return domain.Event{}, err
		}
	}
	if err := validateDescription(in.Description); err != nil {
		return domain.Event{}, err
	}

	var result domain.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, id)
		if err != nil {
			return err
		}
		if in.empty() {
			result = event
			return nil
		}

		if in.Title != nil {
			event.Title = *in.Title
		}
		if in.Description != nil {
			event.Description = in.Description
		}
		if in.StartTime != nil {
			event.StartTime = in.StartTime.UTC()
		}
		if in.EndTime != nil {
			event.EndTime = toUTC(in.EndTime)
		}
		if err := validateEndAfterStart(event.StartTime, event.EndTime); err != nil {
			return err
		}

		event.UpdatedAt = s.clock.Now()
		result, err = s.repo.UpdateEvent(txCtx, event)
		return err
	})
	if err != nil {
		return domain.Event{}, err
	}

	if !in.empty() {
		s.log.WithField("event_id", id).Info("event updated")
	}
	return result, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.log.WithField("event_id", id).Info("event deleted")
	return nil
}

type ListEventsInput struct {
	Limit  int
	Offset int
}

// ListEvents returns events ordered by start time. A non-positive limit falls
// back to the default page size; limits above the maximum are clamped.
func (s *EventService) ListEvents(ctx context.Context, in ListEventsInput) ([]domain.Event, int, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	} else if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	events, err := s.repo.ListEvents(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, limit, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.ErrTitleRequired
	}
	// Limits are in characters, matching the varchar column widths.
	if utf8.RuneCountInString(title) > domain.MaxTitleLen {
		return domain.ErrTitleTooLong
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > domain.MaxDescriptionLen {
		return domain.ErrDescriptionTooLong
	}
	return nil
}

func validateEndAfterStart(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return domain.ErrEndBeforeStart
	}
	return nil
}

func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
