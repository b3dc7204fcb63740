package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

// UserProfile is the public view of a user: display fields plus their
// reviews. The email never leaves the authenticated surface.
type UserProfile struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	JoinedAt time.Time      `json:"joined_at"`
	Reviews  []model.Review `json:"reviews"`
}

// UserService exposes public user profile reads.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*UserProfile, error)
}

type userService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
}

// NewUserService creates a user profile service.
func NewUserService(userRepo repository.UserRepository, reviewRepo repository.ReviewRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, id uint) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	reviews, err := s.reviewRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}

	return &UserProfile{
		ID:       user.ID,
		Name:     user.Name,
		JoinedAt: user.CreatedAt,
		Reviews:  reviews,
	}, nil
}
