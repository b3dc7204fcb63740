package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/service"
)

// AdminHandler handles moderation and analytics endpoints. Role enforcement
// happens in the router; every route here already requires an admin token.
type AdminHandler struct {
	adminService service.AdminService
	queryService service.QueryService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, queryService service.QueryService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		queryService: queryService,
	}
}

// Stats godoc
// @Summary Platform-wide counters and rating distribution
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 500 {object} Response
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List all registered users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, http.StatusOK, users, len(users))
}

// GetUser godoc
// @Summary Get a single user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user ID")
	}

	user, err := h.adminService.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a non-admin user and their reviews
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid user ID")
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), uint(id)); err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, echo.Map{})
}

// ListReviews godoc
// @Summary List reviews with the full filter set for moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Free-text search"
// @Param category query string false "Category filter"
// @Param brand query string false "Brand filter"
// @Param productType query string false "Product type filter"
// @Param sort query string false "Sort expression"
// @Param user query int false "Author user id"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /admin/reviews [get]
func (h *AdminHandler) ListReviews(c echo.Context) error {
	reviews, err := h.queryService.List(c.Request().Context(), parseListFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, http.StatusOK, reviews, len(reviews))
}
