package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"reviewhub/internal/cache"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// CreateReviewInput holds the caller-supplied fields of a new review.
type CreateReviewInput struct {
	Rating  int
	Comment string
	Price   decimal.Decimal
}

// UpdateReviewInput holds the mutable fields of a review. Nil means the field
// is left unchanged; only rating and comment may be edited.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewService handles review CRUD with ownership and uniqueness rules.
// Every mutation that changes a product's review set triggers the aggregator
// as an explicit post-commit step; an aggregation failure is logged and never
// fails the mutation that caused it.
type ReviewService interface {
	Create(ctx context.Context, productID uuid.UUID, userID uint, input CreateReviewInput) (*model.Review, error)
	Update(ctx context.Context, reviewID uuid.UUID, callerID uint, callerRole string, input UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, reviewID uuid.UUID, callerID uint, callerRole string) error
	ListMine(ctx context.Context, userID uint) ([]model.Review, error)
	GetByID(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	aggregator  Aggregator
	cache       *cache.Client
}

// NewReviewService creates a review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	aggregator Aggregator,
	cacheClient *cache.Client,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		aggregator:  aggregator,
		cache:       cacheClient,
	}
}

// Create attaches a review to an existing product.
func (s *reviewService) Create(ctx context.Context, productID uuid.UUID, userID uint, input CreateReviewInput) (*model.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if err := validateComment(input.Comment); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, apperrors.NewValidationError("price", "price must be zero or positive")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Price:     input.Price,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, apperrors.ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.triggerRecompute(ctx, productID)
	s.invalidateStats(ctx)

	return review, nil
}

// Update edits a review's rating and/or comment, restricted to its owner or
// an admin. The aggregator only runs when the rating actually changed.
func (s *reviewService) Update(ctx context.Context, reviewID uuid.UUID, callerID uint, callerRole string, input UpdateReviewInput) (*model.Review, error) {
	review, err := s.findOwned(ctx, reviewID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	ratingChanged := false
	if input.Rating != nil && *input.Rating != review.Rating {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
		review.Rating = *input.Rating
		ratingChanged = true
	}
	if input.Comment != nil {
		if err := validateComment(*input.Comment); err != nil {
			return nil, err
		}
		review.Comment = *input.Comment
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	if ratingChanged {
		s.triggerRecompute(ctx, review.ProductID)
		s.invalidateStats(ctx)
	}

	return review, nil
}

// Delete removes a review, restricted to its owner or an admin. Deleting the
// product's last review removes the product via the aggregator.
func (s *reviewService) Delete(ctx context.Context, reviewID uuid.UUID, callerID uint, callerRole string) error {
	review, err := s.findOwned(ctx, reviewID, callerID, callerRole)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.triggerRecompute(ctx, review.ProductID)
	s.invalidateStats(ctx)

	return nil
}

// ListMine returns the caller's reviews populated with product fields.
func (s *reviewService) ListMine(ctx context.Context, userID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by user: %w", err)
	}
	return reviews, nil
}

// GetByID returns one review populated with product and author display fields.
func (s *reviewService) GetByID(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

// ListByProduct returns all reviews of one product, newest first.
func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.reviewRepo.Search(ctx, repository.ReviewQuery{
		ProductID: productID,
		Order:     []string{"created_at DESC"},
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews by product: %w", err)
	}
	return reviews, nil
}

// findOwned loads a review and enforces the owner-or-admin rule shared by
// Update and Delete.
func (s *reviewService) findOwned(ctx context.Context, reviewID uuid.UUID, callerID uint, callerRole string) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	return review, nil
}

// triggerRecompute runs the aggregator for a product. Failures are logged,
// never propagated: review mutation success is independent of aggregate
// recompute success.
func (s *reviewService) triggerRecompute(ctx context.Context, productID uuid.UUID) {
	if err := s.aggregator.Recompute(ctx, productID); err != nil {
		log.Printf("rating recompute failed for product %s: %v", productID, err)
	}
}

func (s *reviewService) invalidateStats(ctx context.Context) {
	_ = s.cache.Delete(ctx, statsCacheKey)
}

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return apperrors.NewValidationError("rating", "rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment string) error {
	if comment == "" {
		return apperrors.NewValidationError("comment", "comment must not be empty")
	}
	return nil
}
