package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

func TestReviewService_Create(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name          string
		input         CreateReviewInput
		setupMock     func(*MockProductRepository, *MockReviewRepository, *MockAggregator)
		expectedError error
	}{
		{
			name:  "successful create triggers recompute",
			input: CreateReviewInput{Rating: 5, Comment: "solid build", Price: decimal.NewFromInt(20)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {
				p.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
				a.On("Recompute", mock.Anything, productID).Return(nil)
			},
		},
		{
			name:  "second review for same product and user fails",
			input: CreateReviewInput{Rating: 4, Comment: "again", Price: decimal.NewFromInt(10)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {
				p.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateReview,
		},
		{
			name:  "unknown product",
			input: CreateReviewInput{Rating: 4, Comment: "nice", Price: decimal.NewFromInt(10)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {
				p.On("FindByID", mock.Anything, productID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrProductNotFound,
		},
		{
			name:      "rating out of range",
			input:     CreateReviewInput{Rating: 6, Comment: "too good", Price: decimal.NewFromInt(10)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {},
			expectedError: apperrors.NewValidationError("rating", "rating must be between 1 and 5"),
		},
		{
			name:      "empty comment",
			input:     CreateReviewInput{Rating: 3, Comment: "", Price: decimal.NewFromInt(10)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {},
			expectedError: apperrors.NewValidationError("comment", "comment must not be empty"),
		},
		{
			name:      "negative price",
			input:     CreateReviewInput{Rating: 3, Comment: "ok", Price: decimal.NewFromInt(-1)},
			setupMock: func(p *MockProductRepository, r *MockReviewRepository, a *MockAggregator) {},
			expectedError: apperrors.NewValidationError("price", "price must be zero or positive"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo := new(MockProductRepository)
			reviewRepo := new(MockReviewRepository)
			aggregator := new(MockAggregator)
			tt.setupMock(productRepo, reviewRepo, aggregator)

			svc := NewReviewService(reviewRepo, productRepo, aggregator, nil)
			review, err := svc.Create(context.Background(), productID, 7, tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, productID, review.ProductID)
				assert.Equal(t, uint(7), review.UserID)
			}

			productRepo.AssertExpectations(t)
			reviewRepo.AssertExpectations(t)
			aggregator.AssertExpectations(t)
		})
	}
}

func TestReviewService_UpdateAuthorization(t *testing.T) {
	reviewID := uuid.New()
	productID := uuid.New()
	newRating := 5

	tests := []struct {
		name          string
		callerID      uint
		callerRole    string
		expectedError error
	}{
		{name: "owner may edit", callerID: 7, callerRole: model.RoleUser},
		{name: "admin may edit", callerID: 99, callerRole: model.RoleAdmin},
		{name: "stranger is rejected", callerID: 42, callerRole: model.RoleUser, expectedError: apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productRepo := new(MockProductRepository)
			reviewRepo := new(MockReviewRepository)
			aggregator := new(MockAggregator)

			reviewRepo.On("FindByID", mock.Anything, reviewID).Return(&model.Review{
				ID:        reviewID,
				ProductID: productID,
				UserID:    7,
				Rating:    3,
				Comment:   "fine",
			}, nil)
			if tt.expectedError == nil {
				reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
				aggregator.On("Recompute", mock.Anything, productID).Return(nil)
			}

			svc := NewReviewService(reviewRepo, productRepo, aggregator, nil)
			review, err := svc.Update(context.Background(), reviewID, tt.callerID, tt.callerRole, UpdateReviewInput{Rating: &newRating})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, newRating, review.Rating)
			}

			reviewRepo.AssertExpectations(t)
			aggregator.AssertExpectations(t)
		})
	}
}

func TestReviewService_UpdateCommentOnlySkipsRecompute(t *testing.T) {
	reviewID := uuid.New()
	productID := uuid.New()
	comment := "updated thoughts"

	reviewRepo := new(MockReviewRepository)
	aggregator := new(MockAggregator)

	reviewRepo.On("FindByID", mock.Anything, reviewID).Return(&model.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    7,
		Rating:    4,
		Comment:   "original",
	}, nil)
	reviewRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)

	svc := NewReviewService(reviewRepo, new(MockProductRepository), aggregator, nil)
	review, err := svc.Update(context.Background(), reviewID, 7, model.RoleUser, UpdateReviewInput{Comment: &comment})

	assert.NoError(t, err)
	assert.Equal(t, comment, review.Comment)
	aggregator.AssertNotCalled(t, "Recompute", mock.Anything, mock.Anything)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_Delete(t *testing.T) {
	reviewID := uuid.New()
	productID := uuid.New()

	tests := []struct {
		name          string
		callerID      uint
		callerRole    string
		setupMock     func(*MockReviewRepository, *MockAggregator)
		expectedError error
	}{
		{
			name:       "owner delete triggers recompute",
			callerID:   7,
			callerRole: model.RoleUser,
			setupMock: func(r *MockReviewRepository, a *MockAggregator) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, ProductID: productID, UserID: 7}, nil)
				r.On("Delete", mock.Anything, reviewID).Return(nil)
				a.On("Recompute", mock.Anything, productID).Return(nil)
			},
		},
		{
			name:       "non-owner is rejected",
			callerID:   42,
			callerRole: model.RoleUser,
			setupMock: func(r *MockReviewRepository, a *MockAggregator) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, ProductID: productID, UserID: 7}, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:       "missing review",
			callerID:   7,
			callerRole: model.RoleUser,
			setupMock: func(r *MockReviewRepository, a *MockAggregator) {
				r.On("FindByID", mock.Anything, reviewID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrReviewNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewRepo := new(MockReviewRepository)
			aggregator := new(MockAggregator)
			tt.setupMock(reviewRepo, aggregator)

			svc := NewReviewService(reviewRepo, new(MockProductRepository), aggregator, nil)
			err := svc.Delete(context.Background(), reviewID, tt.callerID, tt.callerRole)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			reviewRepo.AssertExpectations(t)
			aggregator.AssertExpectations(t)
		})
	}
}

func TestReviewService_DeleteSucceedsWhenRecomputeFails(t *testing.T) {
	reviewID := uuid.New()
	productID := uuid.New()

	reviewRepo := new(MockReviewRepository)
	aggregator := new(MockAggregator)

	reviewRepo.On("FindByID", mock.Anything, reviewID).
		Return(&model.Review{ID: reviewID, ProductID: productID, UserID: 7}, nil)
	reviewRepo.On("Delete", mock.Anything, reviewID).Return(nil)
	aggregator.On("Recompute", mock.Anything, productID).Return(assert.AnError)

	svc := NewReviewService(reviewRepo, new(MockProductRepository), aggregator, nil)
	err := svc.Delete(context.Background(), reviewID, 7, model.RoleUser)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
	aggregator.AssertExpectations(t)
}

func TestReviewService_ListMine(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("ListByUser", mock.Anything, uint(7)).Return([]model.Review{
		{ID: uuid.New(), UserID: 7, Product: &model.Product{Name: "Keyboard"}},
		{ID: uuid.New(), UserID: 7, Product: &model.Product{Name: "Mouse"}},
	}, nil)

	svc := NewReviewService(reviewRepo, new(MockProductRepository), new(MockAggregator), nil)
	reviews, err := svc.ListMine(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Keyboard", reviews[0].Product.Name)
	reviewRepo.AssertExpectations(t)
}

func TestReviewService_ListByProduct(t *testing.T) {
	productID := uuid.New()
	reviewRepo := new(MockReviewRepository)
	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		ProductID: productID,
		Order:     []string{"created_at DESC"},
	}).Return([]model.Review{{ID: uuid.New(), ProductID: productID}}, nil)

	svc := NewReviewService(reviewRepo, new(MockProductRepository), new(MockAggregator), nil)
	reviews, err := svc.ListByProduct(context.Background(), productID)

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	reviewRepo.AssertExpectations(t)
}
