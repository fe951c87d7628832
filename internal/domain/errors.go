package domain

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title must be at most 255 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 2000 characters")
	ErrStartTimeRequired  = errors.New("start_time is required")
	ErrEndBeforeStart     = errors.New("end_time must be after start_time")
)
