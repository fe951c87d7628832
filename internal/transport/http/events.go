package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ian-yc-kim/ca-events-svc/internal/app"
	"github.com/ian-yc-kim/ca-events-svc/internal/domain"
)

// EventService is the minimal interface the event endpoints need.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (domain.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, in app.UpdateEventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, in app.ListEventsInput) ([]domain.Event, int, error)
}

type EventController struct {
	svc      EventService
	validate *validator.Validate
}

func NewEventController(svc EventService) *EventController {
	return &EventController{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register mounts the event routes on the router.
func (c *EventController) Register(r *mux.Router) {
	r.HandleFunc("/events", c.Create).Methods(http.MethodPost)
	r.HandleFunc("/events", c.List).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", c.Get).Methods(http.MethodGet)
	r.HandleFunc("/events/{id}", c.Update).Methods(http.MethodPatch)
	r.HandleFunc("/events/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !c.check(w, req) {
		return
	}

	in := app.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		EndTime:     toTimePtr(req.EndTime),
	}
	if req.StartTime != nil {
		in.StartTime = req.StartTime.Time
	}

	event, err := c.svc.CreateEvent(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	event, err := c.svc.GetEvent(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req updateEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !c.check(w, req) {
		return
	}

	event, err := c.svc.UpdateEvent(r.Context(), id, app.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   toTimePtr(req.StartTime),
		EndTime:     toTimePtr(req.EndTime),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	if err := c.svc.DeleteEvent(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	var in app.ListEventsInput
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationError, "limit must be an integer")
			return
		}
		in.Limit = parsed
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationError, "offset must be an integer")
			return
		}
		if parsed < 0 {
			writeError(w, http.StatusBadRequest, codeValidationError, "offset must not be negative")
			return
		}
		in.Offset = parsed
	}

	events, limit, err := c.svc.ListEvents(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]eventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, toEventResponse(event))
	}
	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  items,
		Limit:  limit,
		Offset: in.Offset,
	})
}

// decodeBody decodes JSON into dst, rejecting unknown fields. Malformed JSON
// maps to invalid_request_body; timestamp normalization failures surface as
// validation_error with the reason.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
			errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF),
			strings.HasPrefix(err.Error(), "json: unknown field"):
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		default:
			// Timestamp normalization failures land here with their reason.
			writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
		}
		return false
	}
	return true
}

func (c *EventController) check(w http.ResponseWriter, req any) bool {
	if err := c.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			writeValidationError(w, errs)
			return false
		}
		writeError(w, http.StatusInternalServerError, codeInternalServerError, "internal error")
		return false
	}
	return true
}

func eventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "invalid event id")
		return uuid.Nil, false
	}
	return id, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
	case errors.Is(err, domain.ErrEndBeforeStart):
		writeError(w, http.StatusBadRequest, codeEventBusinessRule, err.Error())
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrStartTimeRequired):
		writeError(w, http.StatusBadRequest, codeEventValidation, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalServerError, "an internal server error occurred")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
