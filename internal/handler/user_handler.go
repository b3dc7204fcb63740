package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/service"
)

// UserHandler handles public user profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary Get a user's public profile with their reviews
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user ID")
	}

	profile, err := h.userService.GetProfile(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, profile)
}
