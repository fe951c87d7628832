package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ian-yc-kim/ca-events-svc/internal/app"
	"github.com/ian-yc-kim/ca-events-svc/internal/domain"
)

type stubEventService struct {
	event  domain.Event
	events []domain.Event
	limit  int
	err    error

	lastCreate app.CreateEventInput
	lastUpdate app.UpdateEventInput
	lastList   app.ListEventsInput
	lastID     uuid.UUID
}

func (s *stubEventService) CreateEvent(_ context.Context, in app.CreateEventInput) (domain.Event, error) {
	s.lastCreate = in
	return s.event, s.err
}

func (s *stubEventService) GetEvent(_ context.Context, id uuid.UUID) (domain.Event, error) {
	s.lastID = id
	return s.event, s.err
}

func (s *stubEventService) UpdateEvent(_ context.Context, id uuid.UUID, in app.UpdateEventInput) (domain.Event, error) {
	s.lastID = id
	s.lastUpdate = in
	return s.event, s.err
}

func (s *stubEventService) DeleteEvent(_ context.Context, id uuid.UUID) error {
	s.lastID = id
	return s.err
}

func (s *stubEventService) ListEvents(_ context.Context, in app.ListEventsInput) ([]domain.Event, int, error) {
	s.lastList = in
	return s.events, s.limit, s.err
}

func testRouter(svc EventService) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRouter(svc, log)
}

func sampleEvent() domain.Event {
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	desc := "weekly"
	return domain.Event{
		ID:          uuid.MustParse("3e9a2c45-7f1b-4a8e-9c6d-2b5f8e1a4d07"),
		Title:       "Team sync",
		Description: &desc,
		StartTime:   start,
		EndTime:     &end,
		CreatedAt:   start.Add(-24 * time.Hour),
		UpdatedAt:   start.Add(-24 * time.Hour),
	}
}

func decodeErrorEnvelope(t *testing.T, body io.Reader) errorBody {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error
}

func TestCreateEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		serviceErr   error
		expectStatus int
		expectCode   string
	}{
		{
			name:         "success",
			body:         `{"title":"Team sync","description":"weekly","start_time":"2025-07-01T09:00:00Z","end_time":"2025-07-01T10:00:00Z"}`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "malformed json",
			body:         `{"title":`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeInvalidRequestBody,
		},
		{
			name:         "unknown field",
			body:         `{"title":"x","start_time":"2025-07-01T09:00:00Z","bogus":1}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeInvalidRequestBody,
		},
		{
			name:         "missing title",
			body:         `{"start_time":"2025-07-01T09:00:00Z"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeValidationError,
		},
		{
			name:         "missing start time",
			body:         `{"title":"x"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeValidationError,
		},
		{
			name:         "naive start time",
			body:         `{"title":"x","start_time":"2025-07-01T09:00:00"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeValidationError,
		},
		{
			name:         "title too long",
			body:         `{"title":"` + strings.Repeat("a", 256) + `","start_time":"2025-07-01T09:00:00Z"}`,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeValidationError,
		},
		{
			name:         "business rule violation",
			body:         `{"title":"x","start_time":"2025-07-01T09:00:00Z","end_time":"2025-07-01T08:00:00Z"}`,
			serviceErr:   domain.ErrEndBeforeStart,
			expectStatus: http.StatusBadRequest,
			expectCode:   codeEventBusinessRule,
		},
		{
			name:         "internal error",
			body:         `{"title":"x","start_time":"2025-07-01T09:00:00Z"}`,
			serviceErr:   errors.New("boom"),
			expectStatus: http.StatusInternalServerError,
			expectCode:   codeInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEventService{event: sampleEvent(), err: tt.serviceErr}
			router := testRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.expectStatus, rec.Code, "body: %s", rec.Body.String())
			if tt.expectCode != "" {
				assert.Equal(t, tt.expectCode, decodeErrorEnvelope(t, rec.Body).Code)
			}
		})
	}
}

func TestCreateEvent_ResponseBody(t *testing.T) {
	t.Parallel()

	svc := &stubEventService{event: sampleEvent()}
	router := testRouter(svc)

	body := `{"title":"Team sync","start_time":"2025-07-01T11:00:00+02:00"}`
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "3e9a2c45-7f1b-4a8e-9c6d-2b5f8e1a4d07", resp["id"])
	assert.Equal(t, "Team sync", resp["title"])
	assert.Equal(t, "2025-07-01T09:00:00Z", resp["start_time"])

	// Offset input must reach the service already normalized to UTC.
	assert.Equal(t, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC), svc.lastCreate.StartTime)
}

func TestGetEvent(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		event := sampleEvent()
		svc := &stubEventService{event: event}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events/"+event.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, event.ID, svc.lastID)
		assert.Contains(t, rec.Body.String(), `"title":"Team sync"`)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{err: domain.ErrEventNotFound}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, codeEventNotFound, decodeErrorEnvelope(t, rec.Body).Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeValidationError, decodeErrorEnvelope(t, rec.Body).Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Parallel()

	t.Run("partial patch reaches service", func(t *testing.T) {
		t.Parallel()
		event := sampleEvent()
		svc := &stubEventService{event: event}
		router := testRouter(svc)

		body := `{"title":"Renamed"}`
		req := httptest.NewRequest(http.MethodPatch, "/events/"+event.ID.String(), bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastUpdate.Title)
		assert.Equal(t, "Renamed", *svc.lastUpdate.Title)
		assert.Nil(t, svc.lastUpdate.StartTime)
		assert.Nil(t, svc.lastUpdate.EndTime)
		assert.Nil(t, svc.lastUpdate.Description)
	})

	t.Run("business rule violation", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{err: domain.ErrEndBeforeStart}
		router := testRouter(svc)

		body := `{"end_time":"2025-07-01T08:00:00Z"}`
		req := httptest.NewRequest(http.MethodPatch, "/events/"+uuid.NewString(), bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeEventBusinessRule, decodeErrorEnvelope(t, rec.Body).Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{err: domain.ErrEventNotFound}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodPatch, "/events/"+uuid.NewString(), bytes.NewBufferString(`{"title":"x"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{}
		router := testRouter(svc)

		id := uuid.New()
		req := httptest.NewRequest(http.MethodDelete, "/events/"+id.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, id, svc.lastID)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{err: domain.ErrEventNotFound}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/events/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListEvents(t *testing.T) {
	t.Parallel()

	t.Run("envelope with items", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{events: []domain.Event{sampleEvent()}, limit: 50}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events?limit=500&offset=10", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp listEventsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Team sync", resp.Items[0].Title)
		assert.Equal(t, 50, resp.Limit)
		assert.Equal(t, 10, resp.Offset)

		assert.Equal(t, app.ListEventsInput{Limit: 500, Offset: 10}, svc.lastList)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{limit: 50}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"items":[]`)
	})

	t.Run("bad limit", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events?limit=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, codeValidationError, decodeErrorEnvelope(t, rec.Body).Code)
	})

	t.Run("negative offset", func(t *testing.T) {
		t.Parallel()
		svc := &stubEventService{}
		router := testRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/events?offset=-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	svc := &stubEventService{}
	router := testRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeNotFound, decodeErrorEnvelope(t, rec.Body).Code)

	req = httptest.NewRequest(http.MethodPut, "/events", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, codeMethodNotAllowed, decodeErrorEnvelope(t, rec.Body).Code)
}
