package service

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"reviewhub/internal/cache"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// StandaloneReviewInput holds a review submission that identifies its product
// by free-text attributes instead of an id.
type StandaloneReviewInput struct {
	ProductName string
	Brand       string
	Category    string
	ProductType string
	Rating      int
	Comment     string
}

// ResolverService implements the standalone review flow: find or create the
// product named by (name, brand), fold the new rating into its stats, then
// create the review. The stat fold is a responsiveness optimization only: the
// aggregator recompute fired after the review save re-derives the same values
// from the full review set, which stays the source of truth.
type ResolverService interface {
	ResolveAndReview(ctx context.Context, userID uint, input StandaloneReviewInput) (*model.Review, *model.Product, error)
}

type resolverService struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	aggregator  Aggregator
	cache       *cache.Client
}

// NewResolverService creates a product resolver service.
func NewResolverService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	aggregator Aggregator,
	cacheClient *cache.Client,
) ResolverService {
	return &resolverService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		aggregator:  aggregator,
		cache:       cacheClient,
	}
}

func (s *resolverService) ResolveAndReview(ctx context.Context, userID uint, input StandaloneReviewInput) (*model.Review, *model.Product, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, nil, err
	}
	if err := validateComment(input.Comment); err != nil {
		return nil, nil, err
	}
	if input.ProductName == "" {
		return nil, nil, apperrors.NewValidationError("productName", "product name is required")
	}
	if input.Brand == "" {
		return nil, nil, apperrors.NewValidationError("brand", "brand is required")
	}
	if input.Category == "" {
		return nil, nil, apperrors.NewValidationError("category", "category is required")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	product, err := s.resolveProduct(ctx, user, input)
	if err != nil {
		return nil, nil, err
	}

	review := &model.Review{
		ProductID: product.ID,
		UserID:    user.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// The optimistic seed or fold has already been persisted; re-derive
		// the stats from the live review set so a failed create cannot leave
		// them inflated (a freshly seeded product with no reviews is removed).
		if recErr := s.aggregator.Recompute(ctx, product.ID); recErr != nil {
			log.Printf("rating recompute failed for product %s: %v", product.ID, recErr)
		}
		if err == gorm.ErrDuplicatedKey {
			return nil, nil, apperrors.ErrDuplicateReview
		}
		return nil, nil, fmt.Errorf("create review: %w", err)
	}

	// Authoritative recompute over the full review set; the optimistic seed
	// or fold above converges to the same values here.
	if err := s.aggregator.Recompute(ctx, product.ID); err != nil {
		log.Printf("rating recompute failed for product %s: %v", product.ID, err)
	} else if refreshed, err := s.productRepo.FindByID(ctx, product.ID); err == nil {
		product = refreshed
	}
	_ = s.cache.Delete(ctx, statsCacheKey)

	return review, product, nil
}

// resolveProduct finds the product by case-insensitive (name, brand) match
// or creates it with stats seeded from the submitted rating. For an existing
// product the new rating is folded into the running average. The duplicate
// review check happens before any stat write so a rejected submission leaves
// the product untouched.
func (s *resolverService) resolveProduct(ctx context.Context, user *model.User, input StandaloneReviewInput) (*model.Product, error) {
	product, err := s.productRepo.FindByNameBrand(ctx, input.ProductName, input.Brand)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find product by name and brand: %w", err)
	}

	if err == gorm.ErrRecordNotFound {
		created, createErr := s.createProduct(ctx, user, input)
		if createErr == nil {
			return created, nil
		}
		if createErr != gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("create product: %w", createErr)
		}
		// Lost the creation race on (name, brand); continue against the winner.
		product, err = s.productRepo.FindByNameBrand(ctx, input.ProductName, input.Brand)
		if err != nil {
			return nil, fmt.Errorf("refetch product after duplicate: %w", err)
		}
	}

	if existing, err := s.reviewRepo.FindByProductUser(ctx, product.ID, user.ID); err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateReview
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	newCount := product.ReviewCount + 1
	newAverage := (product.AverageRating*float64(product.ReviewCount) + float64(input.Rating)) / float64(newCount)
	if err := s.productRepo.UpdateStats(ctx, product.ID, newAverage, newCount); err != nil {
		return nil, fmt.Errorf("fold product stats: %w", err)
	}
	product.AverageRating = newAverage
	product.ReviewCount = newCount

	return product, nil
}

func (s *resolverService) createProduct(ctx context.Context, user *model.User, input StandaloneReviewInput) (*model.Product, error) {
	productType := input.ProductType
	if productType == "" {
		productType = model.DefaultProductType
	}

	product := &model.Product{
		Name:        input.ProductName,
		Brand:       input.Brand,
		Category:    input.Category,
		ProductType: productType,
		Description: fmt.Sprintf("Product added by %s", user.Name),
		Image:       model.DefaultProductImage,
		UserID:      &user.ID,
		// Optimistic seed: the review created right after re-derives the
		// identical values through the aggregator since count is 1.
		AverageRating: float64(input.Rating),
		ReviewCount:   1,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}
