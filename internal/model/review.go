package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a single star-rated review of a product. The composite
// unique index on (product_id, user_id) is the final guard against a user
// reviewing the same product twice, even under concurrent creates.
type Review struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:idx_reviews_product_user"`
	UserID    uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	Rating    int             `json:"rating" gorm:"not null"`
	Comment   string          `json:"comment" gorm:"type:text;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations, populated on reads that need display fields.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
