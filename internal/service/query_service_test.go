package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/model"
	"reviewhub/internal/repository"
)

func TestQueryService_NoFiltersListsEverything(t *testing.T) {
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	expected := repository.ReviewQuery{Order: []string{"created_at DESC"}}
	reviewRepo.On("Search", mock.Anything, expected).
		Return([]model.Review{{Rating: 4}}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{})

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	productRepo.AssertNotCalled(t, "FindIDs", mock.Anything, mock.Anything)
	reviewRepo.AssertExpectations(t)
}

func TestQueryService_StructuralFilterScopesToCandidates(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Category: "Sports"}).
		Return(ids, nil)
	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		ProductIDs: ids,
		Order:      []string{"created_at DESC"},
	}).Return([]model.Review{{Rating: 5}, {Rating: 3}}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Category: "Sports"})

	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	productRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestQueryService_EmptyCandidateSetShortCircuits(t *testing.T) {
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Brand: "Nobody"}).
		Return([]uuid.UUID{}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Brand: "Nobody"})

	assert.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotNil(t, reviews)
	reviewRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestQueryService_SearchMatchesProductsOrComments(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Search: "runner"}).
		Return(ids, nil)
	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		ProductIDs: ids,
		Comment:    "runner",
		Order:      []string{"created_at DESC"},
	}).Return([]model.Review{{Comment: "great runner shoe"}}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Search: "runner"})

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	reviewRepo.AssertExpectations(t)
}

func TestQueryService_SearchWithNoProductMatchesStillSearchesComments(t *testing.T) {
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Search: "durable"}).
		Return([]uuid.UUID{}, nil)
	// No candidate products, but comment text can still match.
	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		Comment: "durable",
		Order:   []string{"created_at DESC"},
	}).Return([]model.Review{{Comment: "very durable"}}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Search: "durable"})

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	reviewRepo.AssertExpectations(t)
}

func TestQueryService_SearchWithStructuralScope(t *testing.T) {
	candidates := []uuid.UUID{uuid.New(), uuid.New()}
	scope := []uuid.UUID{candidates[0]}
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Search: "runner", Category: "Sports"}).
		Return(candidates, nil)
	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Category: "Sports"}).
		Return(scope, nil)
	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		ProductIDs: candidates,
		Comment:    "runner",
		ScopeIDs:   scope,
		Order:      []string{"created_at DESC"},
	}).Return([]model.Review{{Comment: "runner"}}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Search: "runner", Category: "Sports"})

	assert.NoError(t, err)
	assert.Len(t, reviews, 1)
	productRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestQueryService_EmptyStructuralScopeShortCircuitsSearch(t *testing.T) {
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Search: "runner", Brand: "Ghost"}).
		Return([]uuid.UUID{uuid.New()}, nil)
	productRepo.On("FindIDs", mock.Anything, repository.ProductFilter{Brand: "Ghost"}).
		Return([]uuid.UUID{}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	reviews, err := svc.List(context.Background(), ListFilters{Search: "runner", Brand: "Ghost"})

	assert.NoError(t, err)
	assert.Empty(t, reviews)
	reviewRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestQueryService_PaginationClampsAndOffsets(t *testing.T) {
	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)

	reviewRepo.On("Search", mock.Anything, repository.ReviewQuery{
		Order:  []string{"created_at DESC"},
		Limit:  maxPageSize,
		Offset: maxPageSize * 2,
	}).Return([]model.Review{}, nil)

	svc := NewQueryService(productRepo, reviewRepo)
	_, err := svc.List(context.Background(), ListFilters{Limit: 500, Page: 3})

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		expected []string
	}{
		{name: "empty defaults to newest first", sort: "", expected: []string{"created_at DESC"}},
		{name: "single ascending field", sort: "rating", expected: []string{"rating"}},
		{name: "descending prefix", sort: "-rating", expected: []string{"rating DESC"}},
		{name: "multiple fields", sort: "price,-createdAt", expected: []string{"price", "created_at DESC"}},
		{name: "unknown fields dropped", sort: "rating,__proto__", expected: []string{"rating"}},
		{name: "only unknown fields fall back to default", sort: "bogus", expected: []string{"created_at DESC"}},
		{name: "whitespace trimmed", sort: " rating , -price ", expected: []string{"rating", "price DESC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSort(tt.sort))
		})
	}
}
