// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blanjago/blanja-backend/internal/database"
	"github.com/blanjago/blanja-backend/internal/models"
	"github.com/blanjago/blanja-backend/internal/utils"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
)

// TrustLevel selects the validation contract for review creation. External
// callers get the full rule set; internal callers are trusted for everything
// except user and product existence.
type TrustLevel int

const (
	TrustExternal TrustLevel = iota
	TrustInternal
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	Comment   string     `json:"comment" validate:"required,max=200"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
}

type UpdateReviewRequest struct {
	Comment string `json:"comment" validate:"required,max=200"`
}

type ReviewAuthor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
}

// ReviewDetail is the creation response shape: the review with its author's
// public fields and without a top-level user id.
type ReviewDetail struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	ParentID  *uuid.UUID   `json:"parent_id,omitempty"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"created_at"`
	Author    ReviewAuthor `json:"author"`
}

type ReviewReply struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductReviewItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Author    struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	} `json:"author"`
	Replies []ReviewReply `json:"replies"`
}

type ProductReviews struct {
	ProductName string              `json:"product_name"`
	Reviews     []ProductReviewItem `json:"reviews"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) Create(req *CreateReviewRequest, trust TrustLevel) (*ReviewDetail, error) {
	if trust == TrustExternal {
		if err := utils.ValidateStruct(req); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	review := &models.Review{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Comment:   req.Comment,
		ParentID:  req.ParentID,
	}

	// Existence checks and the insert share one transaction so a referenced
	// row cannot vanish between check and write.
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if trust == TrustExternal && req.ParentID != nil {
			var parent models.Review
			if err := tx.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReviewNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with the author's public fields
	if err := s.db.Preload("Author").First(review, "id = ?", review.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load created review: %w", err)
	}

	detail := &ReviewDetail{
		ID:        review.ID,
		ProductID: review.ProductID,
		ParentID:  review.ParentID,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		Author: ReviewAuthor{
			ID:    review.Author.ID,
			Name:  review.Author.Name,
			Image: review.Author.Image,
		},
	}

	return detail, nil
}

// GetByProduct returns the product's top-level reviews with author display
// data and one level of replies.
func (s *ReviewService) GetByProduct(productID uuid.UUID) (*ProductReviews, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var reviews []models.Review
	if err := s.db.Where("product_id = ? AND parent_id IS NULL", productID).
		Preload("Author").
		Preload("Replies").
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	result := &ProductReviews{
		ProductName: product.Name,
		Reviews:     make([]ProductReviewItem, 0, len(reviews)),
	}

	for _, review := range reviews {
		item := ProductReviewItem{
			ID:        review.ID,
			UserID:    review.UserID,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
			Replies:   make([]ReviewReply, 0, len(review.Replies)),
		}
		item.Author.Name = review.Author.Name
		item.Author.Image = review.Author.Image

		for _, reply := range review.Replies {
			item.Replies = append(item.Replies, ReviewReply{
				ID:        reply.ID,
				UserID:    reply.UserID,
				Comment:   reply.Comment,
				CreatedAt: reply.CreatedAt,
			})
		}

		result.Reviews = append(result.Reviews, item)
	}

	return result, nil
}

// Update overwrites the allow-listed fields only. Comment is the single
// user-mutable field and it passes the same rules as creation.
func (s *ReviewService) Update(id uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.Review
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&review).Update("comment", req.Comment).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// Delete removes a review together with its direct replies and returns the
// removed record's last-known values.
func (s *ReviewService) Delete(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("parent_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}

		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}
