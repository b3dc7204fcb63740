package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/model"
)

// ProductFilter holds the product-side criteria of a filtered review listing.
// Category, Brand and ProductType are case-insensitive exact matches; Search
// is a case-insensitive substring match against name, brand or product type.
type ProductFilter struct {
	Search      string
	Category    string
	Brand       string
	ProductType string
}

// Empty reports whether no criterion is set.
func (f ProductFilter) Empty() bool {
	return f.Search == "" && f.Category == "" && f.Brand == "" && f.ProductType == ""
}

// Structural returns the filter reduced to its attribute criteria, dropping
// the free-text search. The resulting id set scopes comment-text matches so a
// hit on an out-of-category product is excluded.
func (f ProductFilter) Structural() ProductFilter {
	return ProductFilter{Category: f.Category, Brand: f.Brand, ProductType: f.ProductType}
}

// HasStructural reports whether any attribute criterion is set.
func (f ProductFilter) HasStructural() bool {
	return f.Category != "" || f.Brand != "" || f.ProductType != ""
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByNameBrand(ctx context.Context, name, brand string) (*model.Product, error)
	FindIDs(ctx context.Context, filter ProductFilter) ([]uuid.UUID, error)
	UpdateStats(ctx context.Context, id uuid.UUID, averageRating float64, reviewCount int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByNameBrand performs a case-insensitive exact match on (name, brand).
func (r *productRepository) FindByNameBrand(ctx context.Context, name, brand string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND LOWER(brand) = LOWER(?)", name, brand).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindIDs resolves the ids of all products matching the filter.
func (r *productRepository) FindIDs(ctx context.Context, filter ProductFilter) ([]uuid.UUID, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		tx = tx.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?) OR LOWER(product_type) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", filter.Category)
	}
	if filter.Brand != "" {
		tx = tx.Where("LOWER(brand) = LOWER(?)", filter.Brand)
	}
	if filter.ProductType != "" {
		tx = tx.Where("LOWER(product_type) = LOWER(?)", filter.ProductType)
	}

	var ids []uuid.UUID
	if err := tx.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *productRepository) UpdateStats(ctx context.Context, id uuid.UUID, averageRating float64, reviewCount int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"average_rating": averageRating,
			"review_count":   reviewCount,
		}).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
