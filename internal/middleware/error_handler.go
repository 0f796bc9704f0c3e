package middleware

import (
	"log"
	"net/http"

	"github.com/Jeho05/gamezone-checkout/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as the storefront's JSON error shape.
// Errors the checkout handlers did not map to an HTTP status are logged and
// hidden behind a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	} else {
		log.Printf("[HTTP] unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
