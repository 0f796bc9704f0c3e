package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jeho05/gamezone-checkout/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/sess-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(err, c)

	var resp dto.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestErrorHandler_HTTPError(t *testing.T) {
	rec, resp := handleError(t, echo.NewHTTPError(http.StatusNotFound, "checkout session not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "checkout session not found", resp.Message)
}

func TestErrorHandler_UnmappedErrorIsHidden(t *testing.T) {
	rec, resp := handleError(t, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", resp.Message)
}
