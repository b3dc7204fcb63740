package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

const maxPageSize = 100

// ListFilters describes a filtered review listing request.
type ListFilters struct {
	Search      string
	Category    string
	Brand       string
	ProductType string
	// Sort is a comma-separated field list; a leading '-' marks descending.
	Sort string
	// ProductID scopes to a single product (uuid.Nil = no scope).
	ProductID uuid.UUID
	// UserID scopes to one author (0 = no scope).
	UserID uint
	// Limit/Page are a thin passthrough; Limit 0 disables pagination.
	Limit int
	Page  int
}

// QueryService composes filtered listings across the product and review
// collections. Product attributes live on products and comment text on
// reviews, so the engine resolves candidate product ids first and scopes the
// review query with them instead of relying on a storage-level join.
type QueryService interface {
	List(ctx context.Context, filters ListFilters) ([]model.Review, error)
}

type queryService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

// NewQueryService creates a filtered query service.
func NewQueryService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) QueryService {
	return &queryService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// List resolves the candidate and scope product-id sets, builds the review
// query and returns the populated, ordered results.
func (s *queryService) List(ctx context.Context, filters ListFilters) ([]model.Review, error) {
	query := repository.ReviewQuery{
		ProductID: filters.ProductID,
		UserID:    filters.UserID,
		Order:     parseSort(filters.Sort),
	}
	if filters.Limit > 0 {
		limit := filters.Limit
		if limit > maxPageSize {
			limit = maxPageSize
		}
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query.Limit = limit
		query.Offset = (page - 1) * limit
	}

	productFilter := repository.ProductFilter{
		Search:      filters.Search,
		Category:    filters.Category,
		Brand:       filters.Brand,
		ProductType: filters.ProductType,
	}

	if !productFilter.Empty() {
		candidates, err := s.productRepo.FindIDs(ctx, productFilter)
		if err != nil {
			return nil, fmt.Errorf("resolve candidate products: %w", err)
		}

		if filters.Search != "" {
			// Reviews of matching products OR reviews whose own comment
			// matches; a structural scope constrains the whole clause.
			if len(candidates) > 0 {
				query.ProductIDs = candidates
			}
			query.Comment = filters.Search

			if productFilter.HasStructural() {
				scope, err := s.productRepo.FindIDs(ctx, productFilter.Structural())
				if err != nil {
					return nil, fmt.Errorf("resolve scope products: %w", err)
				}
				if len(scope) == 0 {
					return []model.Review{}, nil
				}
				query.ScopeIDs = scope
			}
		} else {
			// Structural filters only: an empty candidate set can match no
			// review, so skip the review query entirely.
			if len(candidates) == 0 {
				return []model.Review{}, nil
			}
			query.ProductIDs = candidates
		}
	}

	reviews, err := s.reviewRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

// sortColumns maps the exposed sort field names to their columns. Anything
// not listed here is silently dropped from the sort expression.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"rating":    "rating",
	"price":     "price",
}

// parseSort turns a "field1,-field2" expression into SQL order clauses,
// defaulting to newest-first by creation time.
func parseSort(sort string) []string {
	var order []string
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")

		column, ok := sortColumns[field]
		if !ok {
			continue
		}
		if desc {
			column += " DESC"
		}
		order = append(order, column)
	}
	if len(order) == 0 {
		order = []string{"created_at DESC"}
	}
	return order
}
