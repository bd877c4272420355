package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsletter/newsletter/internal/config"
	"github.com/newsletter/newsletter/internal/database"
	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/logger"
	"github.com/newsletter/newsletter/internal/service"
)

type fakeRegistrar struct {
	err   error
	calls [][2]string
}

func (f *fakeRegistrar) Register(_ context.Context, rawName, rawEmail string) error {
	f.calls = append(f.calls, [2]string{rawName, rawEmail})
	return f.err
}

func newTestHandler(t *testing.T, reg Registrar) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(&database.Postgres{DB: db}, nil, logger.Nop(), &config.Config{}, reg), mock
}

func postForm(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubscribe(t *testing.T) {
	validationErr := &domain.ValidationError{Field: "email", Reason: "bad"}

	tests := []struct {
		name       string
		body       string
		regErr     error
		wantStatus int
		wantCalls  int
	}{
		{name: "accepted", body: "name=le%20guin&email=ursula_le_guin%40gmail.com", wantStatus: http.StatusOK, wantCalls: 1},
		{name: "missing email", body: "name=le%20guin", wantStatus: http.StatusBadRequest},
		{name: "missing name", body: "email=ursula_le_guin%40gmail.com", wantStatus: http.StatusBadRequest},
		{name: "missing both", body: "", wantStatus: http.StatusBadRequest},
		{name: "unparsable form", body: "name=%zz&email=x", wantStatus: http.StatusBadRequest},
		{name: "rejected", body: "name=&email=ursula_le_guin%40gmail.com", regErr: validationErr, wantStatus: http.StatusBadRequest, wantCalls: 1},
		{
			name:       "store failure",
			body:       "name=Ursula&email=ursula%40example.com",
			regErr:     errors.Join(service.ErrStoreSubscriber, errors.New("conn reset")),
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
		{
			name:       "dispatch failure",
			body:       "name=Ursula&email=ursula%40example.com",
			regErr:     service.ErrSendConfirmation,
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistrar{err: tt.regErr}
			h, _ := newTestHandler(t, reg)

			rec := httptest.NewRecorder()
			h.Subscribe(rec, postForm(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Zero(t, rec.Body.Len(), "body must be empty")
			assert.Len(t, reg.calls, tt.wantCalls)
		})
	}
}

func TestSubscribe_PassesRawValues(t *testing.T) {
	reg := &fakeRegistrar{}
	h, _ := newTestHandler(t, reg)

	rec := httptest.NewRecorder()
	h.Subscribe(rec, postForm("name=le+guin&email=ursula_le_guin%40gmail.com"))

	require.Len(t, reg.calls, 1)
	assert.Equal(t, [2]string{"le guin", "ursula_le_guin@gmail.com"}, reg.calls[0])
}

func TestHealthCheck(t *testing.T) {
	h, mock := newTestHandler(t, &fakeRegistrar{})

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health_check", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
	// No dependency is touched
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReady(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		h, mock := newTestHandler(t, &fakeRegistrar{})
		mock.ExpectPing()

		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		h, mock := newTestHandler(t, &fakeRegistrar{})
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
