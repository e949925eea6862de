// internal/handlers/review_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blanjago/blanja-backend/internal/handlers"
	"github.com/blanjago/blanja-backend/internal/middleware"
	"github.com/blanjago/blanja-backend/internal/models"
	"github.com/blanjago/blanja-backend/internal/services"
	"github.com/blanjago/blanja-backend/internal/utils"
)

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) Create(req *services.CreateReviewRequest, trust services.TrustLevel) (*services.ReviewDetail, error) {
	args := m.Called(req, trust)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReviewDetail), args.Error(1)
}

func (m *mockReviewStore) GetByProduct(productID uuid.UUID) (*services.ProductReviews, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProductReviews), args.Error(1)
}

func (m *mockReviewStore) Update(id uuid.UUID, req *services.UpdateReviewRequest) (*models.Review, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewStore) Delete(id uuid.UUID) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func setupReviewRouter(store handlers.ReviewStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	h := handlers.NewReviewHandler(store)

	r := gin.New()
	review := r.Group("/review")
	{
		review.GET("/:productId", h.GetReviewsByProduct)
		review.POST("", middleware.AuthRequired(), middleware.ConfirmedUserRequired(), h.AddReview)
		review.PATCH("/:id", h.UpdateReview)
		review.DELETE("/:id", h.DeleteReview)
	}
	r.POST("/internal/review", h.CreateReview)

	return r
}

func authToken(t *testing.T, userID uuid.UUID, confirmed bool) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, "Test User", "customer", confirmed, 1)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestAddReviewSuccess(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	userID := uuid.New()
	productID := uuid.New()
	reviewID := uuid.New()

	detail := &services.ReviewDetail{
		ID:        reviewID,
		ProductID: productID,
		Comment:   "good",
		CreatedAt: time.Now(),
		Author: services.ReviewAuthor{
			ID:    userID,
			Name:  "Test User",
			Image: "avatar.png",
		},
	}

	store.On("Create", mock.MatchedBy(func(req *services.CreateReviewRequest) bool {
		return req.UserID == userID && req.ProductID == productID && req.Comment == "good"
	}), services.TrustExternal).Return(detail, nil)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, userID, true), gin.H{
		"product_id": productID.String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, float64(http.StatusOK), envelope["statusCode"])
	assert.Equal(t, "Review Created", envelope["message"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "good", data["comment"])
	assert.Equal(t, productID.String(), data["product_id"])

	// The author is nested; no user id at the top level of the review
	_, hasUserID := data["user_id"]
	assert.False(t, hasUserID)
	author := data["author"].(map[string]interface{})
	assert.Equal(t, "Test User", author["name"])

	store.AssertExpectations(t)
}

func TestAddReviewSessionIdentityWins(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	userID := uuid.New()
	productID := uuid.New()

	store.On("Create", mock.MatchedBy(func(req *services.CreateReviewRequest) bool {
		return req.UserID == userID
	}), services.TrustExternal).Return(&services.ReviewDetail{}, nil)

	// A user_id in the body must not override the session identity
	w := doJSON(router, http.MethodPost, "/review", authToken(t, userID, true), gin.H{
		"user_id":    uuid.New().String(),
		"product_id": productID.String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestAddReviewCommentTooLong(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, uuid.New(), true), gin.H{
		"product_id": uuid.New().String(),
		"comment":    strings.Repeat("a", 201),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, float64(http.StatusBadRequest), envelope["statusCode"])

	errors := envelope["errors"].([]interface{})
	require.Len(t, errors, 1)
	fieldError := errors[0].(map[string]interface{})
	assert.Equal(t, "comment", fieldError["field"])

	// Nothing reached the store
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddReviewMissingComment(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, uuid.New(), true), gin.H{
		"product_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddReviewProductNotFound(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	store.On("Create", mock.Anything, services.TrustExternal).Return(nil, services.ErrProductNotFound)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, uuid.New(), true), gin.H{
		"product_id": uuid.New().String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Product not found", envelope["message"])
}

func TestAddReviewParentNotFound(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	store.On("Create", mock.Anything, services.TrustExternal).Return(nil, services.ErrReviewNotFound)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, uuid.New(), true), gin.H{
		"product_id": uuid.New().String(),
		"comment":    "good",
		"parent_id":  uuid.New().String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Review not found", envelope["message"])
}

func TestAddReviewRequiresAuth(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodPost, "/review", "", gin.H{
		"product_id": uuid.New().String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddReviewRequiresConfirmedUser(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodPost, "/review", authToken(t, uuid.New(), false), gin.H{
		"product_id": uuid.New().String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewTrustedPath(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	userID := uuid.New()
	productID := uuid.New()

	store.On("Create", mock.MatchedBy(func(req *services.CreateReviewRequest) bool {
		return req.UserID == userID && req.ProductID == productID
	}), services.TrustInternal).Return(&services.ReviewDetail{}, nil)

	// No token, user id taken from the body as-is
	w := doJSON(router, http.MethodPost, "/internal/review", "", gin.H{
		"user_id":    userID.String(),
		"product_id": productID.String(),
		"comment":    "good",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestGetReviewsByProductNotFound(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	productID := uuid.New()
	store.On("GetByProduct", productID).Return(nil, services.ErrProductNotFound)

	w := doJSON(router, http.MethodGet, "/review/"+productID.String(), "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Product not found", envelope["message"])
}

func TestGetReviewsByProduct(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	productID := uuid.New()
	topLevel := uuid.New()
	replyID := uuid.New()

	item := services.ProductReviewItem{
		ID:        topLevel,
		UserID:    uuid.New(),
		Comment:   "good",
		CreatedAt: time.Now(),
		Replies: []services.ReviewReply{
			{ID: replyID, UserID: uuid.New(), Comment: "agreed", CreatedAt: time.Now()},
		},
	}
	item.Author.Name = "Test User"
	item.Author.Image = "avatar.png"

	store.On("GetByProduct", productID).Return(&services.ProductReviews{
		ProductName: "Sepatu Lari",
		Reviews:     []services.ProductReviewItem{item},
	}, nil)

	w := doJSON(router, http.MethodGet, "/review/"+productID.String(), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Reviews for Sepatu Lari", envelope["message"])

	data := envelope["data"].([]interface{})
	require.Len(t, data, 1)

	review := data[0].(map[string]interface{})
	assert.Equal(t, topLevel.String(), review["id"])
	assert.Equal(t, "good", review["comment"])

	author := review["author"].(map[string]interface{})
	assert.Equal(t, "Test User", author["name"])
	assert.Equal(t, "avatar.png", author["image"])

	replies := review["replies"].([]interface{})
	require.Len(t, replies, 1)
	reply := replies[0].(map[string]interface{})
	assert.Equal(t, replyID.String(), reply["id"])
	assert.Equal(t, "agreed", reply["comment"])
}

func TestGetReviewsByProductEmptyReplies(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	productID := uuid.New()
	item := services.ProductReviewItem{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Comment:   "good",
		CreatedAt: time.Now(),
		Replies:   []services.ReviewReply{},
	}

	store.On("GetByProduct", productID).Return(&services.ProductReviews{
		ProductName: "Sepatu Lari",
		Reviews:     []services.ProductReviewItem{item},
	}, nil)

	w := doJSON(router, http.MethodGet, "/review/"+productID.String(), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := parseEnvelope(t, w)
	data := envelope["data"].([]interface{})
	require.Len(t, data, 1)

	// Replies must serialize as an empty array, not null
	replies, ok := data[0].(map[string]interface{})["replies"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, replies)
}

func TestUpdateReview(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	reviewID := uuid.New()
	userID := uuid.New()
	productID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	updated := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Comment:   "new text",
	}
	updated.ID = reviewID
	updated.CreatedAt = createdAt

	store.On("Update", reviewID, mock.MatchedBy(func(req *services.UpdateReviewRequest) bool {
		return req.Comment == "new text"
	})).Return(updated, nil)

	w := doJSON(router, http.MethodPatch, "/review/"+reviewID.String(), "", gin.H{
		"comment": "new text",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Review Updated", envelope["message"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "new text", data["comment"])
	assert.Equal(t, reviewID.String(), data["id"])
	assert.Equal(t, userID.String(), data["user_id"])
	assert.Equal(t, productID.String(), data["product_id"])
}

func TestUpdateReviewNotFound(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	reviewID := uuid.New()
	store.On("Update", reviewID, mock.Anything).Return(nil, services.ErrReviewNotFound)

	w := doJSON(router, http.MethodPatch, "/review/"+reviewID.String(), "", gin.H{
		"comment": "new text",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Review not found", envelope["message"])
}

func TestUpdateReviewCommentTooLong(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodPatch, "/review/"+uuid.New().String(), "", gin.H{
		"comment": strings.Repeat("a", 201),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	reviewID := uuid.New()
	removed := &models.Review{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Comment:   "good",
	}
	removed.ID = reviewID

	store.On("Delete", reviewID).Return(removed, nil)

	w := doJSON(router, http.MethodDelete, "/review/"+reviewID.String(), "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Review Deleted", envelope["message"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, reviewID.String(), data["id"])
	assert.Equal(t, "good", data["comment"])
}

func TestDeleteReviewNotFound(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	reviewID := uuid.New()
	store.On("Delete", reviewID).Return(nil, services.ErrReviewNotFound)

	w := doJSON(router, http.MethodDelete, "/review/"+reviewID.String(), "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Review not found", envelope["message"])
}

func TestReviewInvalidIDs(t *testing.T) {
	store := new(mockReviewStore)
	router := setupReviewRouter(store)

	w := doJSON(router, http.MethodGet, "/review/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/review/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPatch, "/review/not-a-uuid", "", gin.H{"comment": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
