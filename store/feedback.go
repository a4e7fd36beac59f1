package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/models"
)

type FeedbackStore struct {
	db *gorm.DB
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Create stores f without checking that the product exists.
func (s *FeedbackStore) Create(ctx context.Context, f *models.Feedback) error {
	if !ValidID(f.ProductID) || !ValidID(f.UserID) {
		return ErrInvalidID
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return errors.Wrap(err, "create feedback")
	}
	return nil
}

// ListForProduct returns the product's feedback newest first, with each author's id and name loaded.
// A product without feedback yields ErrNotFound.
func (s *FeedbackStore) ListForProduct(ctx context.Context, productID string) ([]models.Feedback, error) {
	if !ValidID(productID) {
		return nil, ErrInvalidID
	}

	var feedbacks []models.Feedback
	err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&feedbacks).
		Error
	if err != nil {
		return nil, errors.Wrapf(err, "list feedback for %s", productID)
	}
	if len(feedbacks) == 0 {
		return nil, ErrNotFound
	}
	return feedbacks, nil
}
