package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/cache"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = time.Minute
)

// AdminStats aggregates platform-wide counters for the admin dashboard.
// RatingDistribution holds review counts for one through five stars.
type AdminStats struct {
	TotalUsers         int64    `json:"totalUsers"`
	TotalReviews       int64    `json:"totalReviews"`
	TotalProducts      int64    `json:"totalProducts"`
	AvgRating          float64  `json:"avgRating"`
	RatingDistribution [5]int64 `json:"ratingDistribution"`
}

// AdminService implements moderation and analytics operations.
type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type adminService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
	aggregator  Aggregator
	cache       *cache.Client
}

// NewAdminService creates an admin service.
func NewAdminService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	aggregator Aggregator,
	cacheClient *cache.Client,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		aggregator:  aggregator,
		cache:       cacheClient,
	}
}

// Stats returns platform counters with the overall average rating rounded to
// one decimal. Results are cached briefly; every review or user mutation
// invalidates the cache.
func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	if data, err := s.cache.Get(ctx, statsCacheKey); err == nil && data != nil {
		var stats AdminStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &AdminStats{}
	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalReviews, err = s.reviewRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	ratingCounts, err := s.reviewRepo.RatingCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating counts: %w", err)
	}

	var sum, total int64
	for rating, count := range ratingCounts {
		if rating >= model.MinRating && rating <= model.MaxRating {
			stats.RatingDistribution[rating-1] = count
		}
		sum += int64(rating) * count
		total += count
	}
	if total > 0 {
		stats.AvgRating = math.Round(float64(sum)/float64(total)*10) / 10
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey, payload, statsCacheTTL)
	}

	return stats, nil
}

// ListUsers returns all registered users, newest first.
func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user by id.
func (s *adminService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a non-admin user together with their reviews and
// recomputes every product those reviews touched. A product whose last
// review belonged to the user disappears with them.
func (s *adminService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsAdmin() {
		return apperrors.ErrAdminUndeletable
	}

	reviews, err := s.reviewRepo.ListByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("list user reviews: %w", err)
	}

	if err := s.reviewRepo.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete user reviews: %w", err)
	}

	// Recompute before removing the user row: if that delete fails, every
	// touched product has already been brought back in line with its
	// remaining reviews (or removed when none are left).
	seen := make(map[uuid.UUID]bool, len(reviews))
	for _, review := range reviews {
		if seen[review.ProductID] {
			continue
		}
		seen[review.ProductID] = true
		if err := s.aggregator.Recompute(ctx, review.ProductID); err != nil {
			log.Printf("rating recompute failed for product %s: %v", review.ProductID, err)
		}
	}
	_ = s.cache.Delete(ctx, statsCacheKey)

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
