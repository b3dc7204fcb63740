package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "reviewhub/internal/errors"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func respondList(c echo.Context, status int, data interface{}, count int) error {
	return c.JSON(status, Response{Success: true, Data: data, Count: &count})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: status < http.StatusBadRequest, Message: message})
}

// respondError maps a domain error onto the envelope. Internal failures keep
// their detail in the server log and reach the caller as a generic message.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	return c.JSON(httpErr.StatusCode, Response{Success: false, Message: httpErr.Message})
}
