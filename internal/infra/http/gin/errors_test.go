package ginserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/domain/shared/fault"
)

func TestStatusFor(t *testing.T) {
	cases := map[fault.Code]int{
		fault.CodeValidation:        http.StatusBadRequest,
		fault.CodeNotFound:          http.StatusNotFound,
		fault.CodeForbidden:         http.StatusForbidden,
		fault.CodeConflict:          http.StatusConflict,
		fault.CodeInvalidTransition: http.StatusConflict,
		fault.CodeStaleState:        http.StatusConflict,
		fault.CodeBusy:              http.StatusServiceUnavailable,
		fault.CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusFor(code), string(code))
	}
}

func TestWriteErrorHidesUnclassifiedDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, errors.New("mongo: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL", body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message, "driver details never leak to clients")
}

func TestWriteErrorMarksRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, fault.New(fault.CodeBusy, "venue schedule is busy, retry shortly"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Error struct {
			Retryable bool `json:"retryable"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error.Retryable)
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc123", extractBearerToken("Bearer abc123"))
	assert.Equal(t, "abc123", extractBearerToken("bearer abc123"))
	assert.Equal(t, "", extractBearerToken("Basic abc123"))
	assert.Equal(t, "", extractBearerToken(""))
	assert.Equal(t, "", extractBearerToken("Bearer"))
}
