package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// ReviewAggregate holds the derived rating statistics of one product's
// live review set.
type ReviewAggregate struct {
	AverageRating float64
	ReviewCount   int
}

// ReviewQuery describes a composed review listing. Nil id slices mean
// "unconstrained"; an empty non-nil slice matches nothing and is normally
// short-circuited by the caller before it reaches the repository.
type ReviewQuery struct {
	// ProductIDs is the candidate product-id set. When Comment is also set
	// the two conditions are OR'd: a review matches by product or by its own
	// comment text.
	ProductIDs []uuid.UUID
	// Comment is a case-insensitive substring match on the review comment.
	Comment string
	// ScopeIDs constrains the whole clause to products in the structural
	// (category/brand/type) scope.
	ScopeIDs []uuid.UUID
	// ProductID scopes to a single product. uuid.Nil means no scope.
	ProductID uuid.UUID
	// UserID scopes to one author. Zero means no scope.
	UserID uint
	// Order holds SQL order expressions, applied in sequence.
	Order []string
	// Limit/Offset are a thin passthrough; zero Limit means no cap.
	Limit  int
	Offset int
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Save(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByProductUser(ctx context.Context, productID uuid.UUID, userID uint) (*model.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
	Search(ctx context.Context, query ReviewQuery) ([]model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uint) error
	Aggregate(ctx context.Context, productID uuid.UUID) (ReviewAggregate, error)
	Count(ctx context.Context) (int64, error)
	RatingCounts(ctx context.Context) (map[int]int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository builds a GORM-backed repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review. The (product_id, user_id) unique index turns a
// concurrent duplicate into gorm.ErrDuplicatedKey for exactly one loser.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Save(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// FindByID returns a review populated with its product and author.
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductUser(ctx context.Context, productID uuid.UUID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByUser returns all reviews owned by userID, newest first, populated
// with their products' identifying fields.
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Search executes a composed review listing with product and user population.
func (r *reviewRepository) Search(ctx context.Context, query ReviewQuery) ([]model.Review, error) {
	tx := r.db.WithContext(ctx).Model(&model.Review{}).
		Preload("Product").
		Preload("User")

	switch {
	case query.Comment != "" && query.ProductIDs != nil:
		tx = tx.Where(
			"product_id IN ? OR LOWER(comment) LIKE LOWER(?)",
			query.ProductIDs, "%"+query.Comment+"%",
		)
	case query.Comment != "":
		tx = tx.Where("LOWER(comment) LIKE LOWER(?)", "%"+query.Comment+"%")
	case query.ProductIDs != nil:
		tx = tx.Where("product_id IN ?", query.ProductIDs)
	}

	if query.ScopeIDs != nil {
		tx = tx.Where("product_id IN ?", query.ScopeIDs)
	}
	if query.ProductID != uuid.Nil {
		tx = tx.Where("product_id = ?", query.ProductID)
	}
	if query.UserID != 0 {
		tx = tx.Where("user_id = ?", query.UserID)
	}

	for _, order := range query.Order {
		tx = tx.Order(order)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit).Offset(query.Offset)
	}

	var reviews []model.Review
	if err := tx.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (r *reviewRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Review{}).Error
}

// Aggregate computes the live average rating and review count of a product.
func (r *reviewRepository) Aggregate(ctx context.Context, productID uuid.UUID) (ReviewAggregate, error) {
	var agg ReviewAggregate
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return ReviewAggregate{}, err
	}
	return agg, nil
}

func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RatingCounts returns the number of reviews per star value.
func (r *reviewRepository) RatingCounts(ctx context.Context) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}
