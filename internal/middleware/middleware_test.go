package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.New(apperr.KindSameAccount, "same"), http.StatusBadRequest},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("dup"), http.StatusConflict},
		{apperr.New(apperr.KindInsufficientFunds, "broke"), http.StatusUnprocessableEntity},
		{apperr.New(apperr.KindInvalidRecipient, "who"), http.StatusUnprocessableEntity},
		{apperr.New(apperr.KindBalanceLimit, "full"), http.StatusUnprocessableEntity},
		{apperr.Storage(errors.New("boom"), "failed"), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestRespondWithAppError_HidesStorageDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithAppError(c, apperr.Storage(errors.New("pq: password authentication failed"), "failed to list accounts"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal storage error", body["message"])
	assert.Equal(t, "storage_error", body["code"])
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Name string `json:"nombre" validate:"required,max=5"`
	}

	assert.Nil(t, ValidateRequest(request{Name: "ALICE"}))

	errs := ValidateRequest(request{})
	require.Len(t, errs, 1)
	assert.Equal(t, "Name", errs[0].Field)
	assert.Equal(t, "required", errs[0].Type)

	errs = ValidateRequest(request{Name: "TOOLONG"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Value is too long", errs[0].Message)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestID(c.Request.Context()))
	})

	t.Run("propagates client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", w.Body.String())
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})
}
