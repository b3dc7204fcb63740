package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product defaults applied when a product is created implicitly through the
// standalone review flow.
const (
	DefaultProductType  = "General"
	DefaultProductImage = "no-photo.jpg"
)

// Product represents a catalog entry. AverageRating and ReviewCount are
// denormalized over the product's live review set; the aggregator keeps them
// in sync after every review mutation and removes products whose last review
// is deleted.
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string          `json:"name" gorm:"size:100;not null;uniqueIndex:idx_products_name_brand"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	Category      string          `json:"category" gorm:"size:100;not null;index"`
	Brand         string          `json:"brand" gorm:"size:100;not null;uniqueIndex:idx_products_name_brand"`
	ProductType   string          `json:"productType" gorm:"size:100;not null;default:'General';index"`
	Image         string          `json:"image" gorm:"size:512;not null;default:'no-photo.jpg'"`
	AverageRating float64         `json:"averageRating" gorm:"not null;default:1"`
	ReviewCount   int             `json:"reviewCount" gorm:"not null;default:0"`
	// UserID records who first submitted the product. Nullable so deleting
	// that user leaves the product (and its other reviews) in place.
	UserID    *uint     `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
