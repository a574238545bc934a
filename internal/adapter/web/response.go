package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simaogato/ventureflow/internal/domain"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// httpStatus maps domain errors to HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLastRecord):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoChartData),
		errors.Is(err, domain.ErrHorizonTooLarge),
		errors.Is(err, domain.ErrValueOutOfRange),
		errors.Is(err, domain.ErrIncorrectPassphrase):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the user-facing text for err; internal failures are not echoed
func errorMessage(err error) string {
	switch httpStatus(err) {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusUnprocessableEntity:
		if errors.Is(err, domain.ErrIncorrectPassphrase) {
			return "Incorrect password"
		}
		if errors.Is(err, domain.ErrNoChartData) {
			return "Please add at least one complete investment!"
		}
	}
	return err.Error()
}
