package helper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rayob-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, h *HTTPHelper, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/things", nil)
	fn(c)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper(nil)

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrInvalidToken, http.StatusUnauthorized},
		{models.ErrExpiredToken, http.StatusUnauthorized},
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.NewValidationError("bad", nil), http.StatusBadRequest},
		{models.NewNotFoundError("client", 1), http.StatusNotFound},
		{models.NewConflictError("dup"), http.StatusConflict},
		{models.ErrRateLimited, http.StatusTooManyRequests},
		{models.ErrTimeout, http.StatusGatewayTimeout},
		{fmt.Errorf("wrapped: %w", models.ErrForbidden), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.GetStatusCode(tt.err), "%v", tt.err)
	}
}

func TestSendSuccess(t *testing.T) {
	w, env := respond(t, NewHTTPHelper(nil), func(c *gin.Context) {
		NewHTTPHelper(nil).SendSuccess(c, map[string]int{"id": 1})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, env.Data)
}

func TestSendErrorClassified(t *testing.T) {
	h := NewHTTPHelper(nil)
	w, env := respond(t, h, func(c *gin.Context) {
		h.SendError(c, models.NewValidationError("invalid payload", []string{"name"}))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.KindValidation, env.Error.Code)
	assert.Equal(t, "invalid payload", env.Error.Message)
	assert.Equal(t, []interface{}{"name"}, env.Error.Details)
}

func TestSendErrorHidesInternalDetail(t *testing.T) {
	var logs bytes.Buffer
	h := NewHTTPHelper(slog.New(slog.NewTextHandler(&logs, nil)))

	w, env := respond(t, h, func(c *gin.Context) {
		h.SendError(c, errors.New("pq: relation \"clients\" does not exist"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.KindInternal, env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Contains(t, logs.String(), "relation")
}

func TestBindJSONMalformed(t *testing.T) {
	h := NewHTTPHelper(slog.New(slog.NewTextHandler(io.Discard, nil)))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/things", bytes.NewBufferString("{not json"))

	var dst map[string]interface{}
	assert.False(t, h.BindJSON(c, &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseID(t *testing.T) {
	h := NewHTTPHelper(nil)

	for _, raw := range []string{"", "0", "-1", "abc", "99999999999"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/things", nil)

		_, ok := h.ParseID(c, raw)
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id, ok := h.ParseID(c, "42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}
