// internal/handlers/review.go
package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blanjago/blanja-backend/internal/models"
	"github.com/blanjago/blanja-backend/internal/services"
	"github.com/blanjago/blanja-backend/internal/utils"
)

// ReviewStore is the slice of the review service the handlers need.
type ReviewStore interface {
	Create(req *services.CreateReviewRequest, trust services.TrustLevel) (*services.ReviewDetail, error)
	GetByProduct(productID uuid.UUID) (*services.ProductReviews, error)
	Update(id uuid.UUID, req *services.UpdateReviewRequest) (*models.Review, error)
	Delete(id uuid.UUID) (*models.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewStore
}

func NewReviewHandler(reviewService ReviewStore) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// POST /review
// Validated creation path: the author comes from the verified session, the
// body is validated against the full rule set.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", nil)
		return
	}

	// The session identity wins over anything in the body
	req.UserID = userID

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	review, err := h.reviewService.Create(&req, services.TrustExternal)
	if err != nil {
		h.respondReviewError(c, err, "Error while adding review")
		return
	}

	utils.SuccessResponse(c, "Review Created", review)
}

// POST /review (trusted)
// Legacy creation path: trusts the full request body including the author,
// and skips the field rules. Kept reachable for internal callers only.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", nil)
		return
	}

	review, err := h.reviewService.Create(&req, services.TrustInternal)
	if err != nil {
		h.respondReviewError(c, err, "Error while adding review")
		return
	}

	utils.SuccessResponse(c, "Review Created", review)
}

// GET /review/:productId
func (h *ReviewHandler) GetReviewsByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	result, err := h.reviewService.GetByProduct(productID)
	if err != nil {
		h.respondReviewError(c, err, "Error while getting reviews")
		return
	}

	utils.SuccessResponse(c, fmt.Sprintf("Reviews for %s", result.ProductName), result.Reviews)
}

// PATCH /review/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid review ID", nil)
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", nil)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	review, err := h.reviewService.Update(id, &req)
	if err != nil {
		h.respondReviewError(c, err, "Error while updating review")
		return
	}

	utils.SuccessResponse(c, "Review Updated", review)
}

// DELETE /review/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid review ID", nil)
		return
	}

	review, err := h.reviewService.Delete(id)
	if err != nil {
		h.respondReviewError(c, err, "Error while deleting review")
		return
	}

	utils.SuccessResponse(c, "Review Deleted", review)
}

func (h *ReviewHandler) respondReviewError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "User not found")
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product not found")
	case errors.Is(err, services.ErrReviewNotFound):
		utils.NotFoundResponse(c, "Review not found")
	default:
		utils.InternalErrorResponse(c, fallback, nil)
	}
}
