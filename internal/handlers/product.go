// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blanjago/blanja-backend/internal/models"
	"github.com/blanjago/blanja-backend/internal/services"
	"github.com/blanjago/blanja-backend/internal/utils"
)

// ProductStore is the slice of the product service the handlers need.
type ProductStore interface {
	Search(params services.ProductSearchParams) ([]models.Product, int64, error)
	Get(id uuid.UUID) (*models.Product, error)
	Create(sellerID uuid.UUID, req *services.CreateProductRequest) (*models.Product, error)
	Update(id uuid.UUID, sellerID uuid.UUID, req *services.UpdateProductRequest) (*models.Product, error)
	Delete(id uuid.UUID, sellerID uuid.UUID) error
}

type ProductHandler struct {
	productService ProductStore
}

func NewProductHandler(productService ProductStore) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}

	if sellerIDStr := c.Query("seller_id"); sellerIDStr != "" {
		if sellerID, err := uuid.Parse(sellerIDStr); err == nil {
			searchParams.SellerID = &sellerID
		}
	}

	products, total, err := h.productService.Search(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, "Error while getting products", nil)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.SuccessResponse(c, "Products", result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product not found")
			return
		}
		utils.InternalErrorResponse(c, "Error while getting product", nil)
		return
	}

	utils.SuccessResponse(c, "Product Detail", product)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := h.sellerFromContext(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", nil)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Create(sellerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		utils.InternalErrorResponse(c, "Error while creating product", nil)
		return
	}

	utils.SuccessResponse(c, "Product Created", product)
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	sellerID, ok := h.sellerFromContext(c)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", nil)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Update(id, sellerID, &req)
	if err != nil {
		h.respondProductError(c, err, "Error while updating product")
		return
	}

	utils.SuccessResponse(c, "Product Updated", product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	sellerID, ok := h.sellerFromContext(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(id, sellerID); err != nil {
		h.respondProductError(c, err, "Error while deleting product")
		return
	}

	utils.SuccessResponse(c, "Product Deleted", nil)
}

func (h *ProductHandler) sellerFromContext(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	sellerID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return sellerID, true
}

func (h *ProductHandler) respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product not found")
	case errors.Is(err, services.ErrProductNotOwned):
		utils.ForbiddenResponse(c, "Unauthorized to modify this product")
	default:
		utils.InternalErrorResponse(c, fallback, nil)
	}
}
