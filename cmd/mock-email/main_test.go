package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsletter/newsletter/internal/logger"
)

const sendBody = `{"From":"newsletter@example.com","To":"ursula_le_guin@gmail.com","Subject":"Welcome!","HtmlBody":"<p>hi</p>","TextBody":"hi"}`

func TestMock_AcceptsSend(t *testing.T) {
	mux := newMux(options{}, logger.Nop())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/email", strings.NewReader(sendBody)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp sendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ursula_le_guin@gmail.com", resp.To)
	assert.Zero(t, resp.ErrorCode)
	assert.NotEmpty(t, resp.MessageID)
}

func TestMock_FailStatus(t *testing.T) {
	mux := newMux(options{failStatus: http.StatusInternalServerError}, logger.Nop())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/email", strings.NewReader(sendBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMock_InvalidJSON(t *testing.T) {
	mux := newMux(options{}, logger.Nop())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/email", strings.NewReader("{")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
