package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"reviewhub/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService   service.ReviewService
	resolverService service.ResolverService
	queryService    service.QueryService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(
	reviewService service.ReviewService,
	resolverService service.ResolverService,
	queryService service.QueryService,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService:   reviewService,
		resolverService: resolverService,
		queryService:    queryService,
	}
}

// CreateReviewRequest represents a review attached to an existing product.
type CreateReviewRequest struct {
	Rating  int             `json:"rating" validate:"required,min=1,max=5"`
	Comment string          `json:"comment" validate:"required"`
	Price   decimal.Decimal `json:"price"`
}

// StandaloneReviewRequest represents a review that names its product by
// free-text attributes.
type StandaloneReviewRequest struct {
	ProductName string `json:"productName" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Category    string `json:"category" validate:"required"`
	ProductType string `json:"productType"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"required"`
}

// UpdateReviewRequest represents a review edit; only rating and comment are
// mutable.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

// StandaloneReviewResponse carries both the review and its resolved product.
type StandaloneReviewResponse struct {
	Review  interface{} `json:"review"`
	Product interface{} `json:"product"`
}

// parseListFilters reads the shared listing query parameters.
func parseListFilters(c echo.Context) service.ListFilters {
	filters := service.ListFilters{
		Search:      c.QueryParam("search"),
		Category:    c.QueryParam("category"),
		Brand:       c.QueryParam("brand"),
		ProductType: c.QueryParam("productType"),
		Sort:        c.QueryParam("sort"),
	}
	// The catalog UI sends category=All for the unfiltered view.
	if filters.Category == "All" {
		filters.Category = ""
	}
	if v := c.QueryParam("user"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			filters.UserID = uint(id)
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filters.Limit = n
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filters.Page = n
		}
	}
	return filters
}

// List godoc
// @Summary List reviews with filtering and search
// @Tags reviews
// @Produce json
// @Param search query string false "Free-text search over product name/brand/type and comments"
// @Param category query string false "Category filter (case-insensitive exact match)"
// @Param brand query string false "Brand filter"
// @Param productType query string false "Product type filter"
// @Param sort query string false "Comma-separated sort fields, '-' prefix for descending"
// @Param user query int false "Author user id"
// @Param limit query int false "Page size"
// @Param page query int false "Page number"
// @Success 200 {object} Response
// @Failure 500 {object} Response
// @Router /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.queryService.List(c.Request().Context(), parseListFilters(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, http.StatusOK, reviews, len(reviews))
}

// ListByProduct godoc
// @Summary List reviews of one product
// @Tags reviews
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /products/{productId}/reviews [get]
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid product ID")
	}

	reviews, err := h.reviewService.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, http.StatusOK, reviews, len(reviews))
}

// ListMine godoc
// @Summary List the caller's reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /reviews/myreviews [get]
func (h *ReviewHandler) ListMine(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, http.StatusOK, reviews, len(reviews))
}

// GetByID godoc
// @Summary Get a single review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetByID(c echo.Context) error {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid review ID")
	}

	review, err := h.reviewService.GetByID(c.Request().Context(), reviewID)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, review)
}

// Create godoc
// @Summary Add a review to an existing product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body CreateReviewRequest true "Review data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /products/{productId}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid product ID")
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.Create(c.Request().Context(), productID, claims.UserID, service.CreateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
		Price:   req.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, review)
}

// CreateStandalone godoc
// @Summary Submit a review, creating the product on the fly when needed
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StandaloneReviewRequest true "Review and product data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /reviews/standalone [post]
func (h *ReviewHandler) CreateStandalone(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	var req StandaloneReviewRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, err.Error())
	}

	review, product, err := h.resolverService.ResolveAndReview(c.Request().Context(), claims.UserID, service.StandaloneReviewInput{
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    req.Category,
		ProductType: req.ProductType,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusCreated, StandaloneReviewResponse{Review: review, Product: product})
}

// Update godoc
// @Summary Edit a review's rating or comment
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body UpdateReviewRequest true "Fields to change"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid review ID")
	}

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.Update(c.Request().Context(), reviewID, claims.UserID, claims.Role, service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, review)
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	claims, err := callerClaims(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid review ID")
	}

	if err := h.reviewService.Delete(c.Request().Context(), reviewID, claims.UserID, claims.Role); err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, echo.Map{})
}
