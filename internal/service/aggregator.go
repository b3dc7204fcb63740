package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/repository"
)

const (
	recomputeAttempts = 3
	recomputeBackoff  = 100 * time.Millisecond
)

// Aggregator keeps a product's denormalized rating statistics in sync with
// its live review set. It fires after every review mutation; the review set
// is the authoritative source of truth and any optimistic stat update made
// elsewhere is overwritten here.
type Aggregator interface {
	Recompute(ctx context.Context, productID uuid.UUID) error
}

type aggregator struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

// NewAggregator creates a rating aggregator.
func NewAggregator(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) Aggregator {
	return &aggregator{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

// Recompute derives the average rating and review count over all reviews of
// the product and stores them. A product left with zero reviews is deleted.
// Recompute is idempotent; transient storage errors are retried a bounded
// number of times before the failure is reported to the caller.
func (a *aggregator) Recompute(ctx context.Context, productID uuid.UUID) error {
	var lastErr error
	for attempt := 1; attempt <= recomputeAttempts; attempt++ {
		if err := a.recomputeOnce(ctx, productID); err != nil {
			lastErr = err
			if attempt < recomputeAttempts {
				time.Sleep(recomputeBackoff)
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("recompute product %s after %d attempts: %w", productID, recomputeAttempts, lastErr)
}

func (a *aggregator) recomputeOnce(ctx context.Context, productID uuid.UUID) error {
	agg, err := a.reviewRepo.Aggregate(ctx, productID)
	if err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}

	if agg.ReviewCount == 0 {
		if err := a.productRepo.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete orphaned product: %w", err)
		}
		log.Printf("product %s deleted because it has no reviews", productID)
		return nil
	}

	if err := a.productRepo.UpdateStats(ctx, productID, agg.AverageRating, agg.ReviewCount); err != nil {
		return fmt.Errorf("update product stats: %w", err)
	}
	return nil
}
