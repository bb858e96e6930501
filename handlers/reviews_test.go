package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reviewpulse/review-backend-go/apperrors"
	"github.com/reviewpulse/review-backend-go/models"
	"github.com/reviewpulse/review-backend-go/service"
)

const testProductID = "f8b8b69e-4b1f-4a7e-9c6e-2f1f3b6a8d01"
const testUserID = "9a6d0f3e-51f2-4f4e-b9d8-05c1a2e6a002"

type stubService struct {
	review  *models.Review
	reviews []models.Review
	summary *models.ReviewSummary
	ai      *models.AISummary
	err     error

	listCalls    int
	listAllCalls int
	createCalls  int
}

func (s *stubService) ListReviews(_ context.Context, _ string, _ int, _ models.SortBy, _ models.SortOrder) ([]models.Review, error) {
	s.listCalls++
	return s.reviews, s.err
}

func (s *stubService) ListAllReviews(_ context.Context, _ string, _ models.SortBy, _ models.SortOrder) ([]models.Review, error) {
	s.listAllCalls++
	return s.reviews, s.err
}

func (s *stubService) GetReview(_ context.Context, _ string, _ primitive.ObjectID) (*models.Review, error) {
	return s.review, s.err
}

func (s *stubService) CreateReview(_ context.Context, _ string, _ service.CreateReviewInput) (*models.Review, error) {
	s.createCalls++
	return s.review, s.err
}

func (s *stubService) UpdateReview(_ context.Context, _ string, _ primitive.ObjectID, _ models.ReviewPatch) (*models.Review, error) {
	return s.review, s.err
}

func (s *stubService) DeleteReview(_ context.Context, _ string, _ primitive.ObjectID) (*models.Review, error) {
	return s.review, s.err
}

func (s *stubService) GetSummary(_ context.Context, _ string) (*models.ReviewSummary, error) {
	return s.summary, s.err
}

func (s *stubService) GetAISummary(_ context.Context, _ string, _ models.SortBy, _ models.SortOrder) (*models.AISummary, error) {
	return s.ai, s.err
}

func newContext(t *testing.T, method, target, body string, params map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	return c, rec
}

func TestListReviewsInvalidProductID(t *testing.T) {
	stub := &stubService{}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodGet, "/", "", map[string]string{"productId": "not-a-uuid"})
	require.NoError(t, h.ListReviews(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.listCalls)
	assert.Zero(t, stub.listAllCalls)
}

func TestListReviewsPageQuerySelectsPaginatedPath(t *testing.T) {
	stub := &stubService{reviews: []models.Review{}}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodGet, "/?page=2", "", map[string]string{"productId": testProductID})
	require.NoError(t, h.ListReviews(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.listCalls)
	assert.Zero(t, stub.listAllCalls)
}

func TestListReviewsWithoutPageReturnsFullSet(t *testing.T) {
	stub := &stubService{reviews: []models.Review{}}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodGet, "/", "", map[string]string{"productId": testProductID})
	require.NoError(t, h.ListReviews(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, stub.listCalls)
	assert.Equal(t, 1, stub.listAllCalls)
}

func TestGetReviewInvalidReviewID(t *testing.T) {
	h := NewReviewHandler(&stubService{})

	c, rec := newContext(t, http.MethodGet, "/", "", map[string]string{
		"productId": testProductID,
		"reviewId":  "nope",
	})
	require.NoError(t, h.GetReview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReviewNotFound(t *testing.T) {
	h := NewReviewHandler(&stubService{err: apperrors.NotFound("review not found")})

	c, rec := newContext(t, http.MethodGet, "/", "", map[string]string{
		"productId": testProductID,
		"reviewId":  primitive.NewObjectID().Hex(),
	})
	require.NoError(t, h.GetReview(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCreateReviewSuccess(t *testing.T) {
	created := &models.Review{ID: primitive.NewObjectID(), ProductID: testProductID, Score: 4}
	stub := &stubService{review: created}
	h := NewReviewHandler(stub)

	body := `{"description":"great","image":[],"tags":[],"score":4,"product_id":"` + testProductID + `","title":"great","user_id":"` + testUserID + `","location":"Berlin"}`
	c, rec := newContext(t, http.MethodPost, "/", body, map[string]string{"productId": testProductID})
	require.NoError(t, h.CreateReview(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, stub.createCalls)
}

func TestCreateReviewScoreOutOfRange(t *testing.T) {
	stub := &stubService{}
	h := NewReviewHandler(stub)

	body := `{"description":"great","score":6,"product_id":"` + testProductID + `","user_id":"` + testUserID + `"}`
	c, rec := newContext(t, http.MethodPost, "/", body, map[string]string{"productId": testProductID})
	require.NoError(t, h.CreateReview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.createCalls)
}

func TestCreateReviewTooManyImages(t *testing.T) {
	stub := &stubService{}
	h := NewReviewHandler(stub)

	body := `{"description":"great","image":["a","b","c","d"],"score":4,"product_id":"` + testProductID + `","user_id":"` + testUserID + `"}`
	c, rec := newContext(t, http.MethodPost, "/", body, map[string]string{"productId": testProductID})
	require.NoError(t, h.CreateReview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.createCalls)
}

func TestCreateReviewMismatchFromService(t *testing.T) {
	stub := &stubService{err: apperrors.BadRequest("product id in body and path do not match")}
	h := NewReviewHandler(stub)

	otherProduct := "0e0e0e0e-0000-4000-8000-000000000000"
	body := `{"description":"great","score":4,"product_id":"` + otherProduct + `","user_id":"` + testUserID + `"}`
	c, rec := newContext(t, http.MethodPost, "/", body, map[string]string{"productId": testProductID})
	require.NoError(t, h.CreateReview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReviewPatchValidation(t *testing.T) {
	stub := &stubService{}
	h := NewReviewHandler(stub)

	body := `{"description":"x","score":2,"helpful":-1}`
	c, rec := newContext(t, http.MethodPut, "/", body, map[string]string{
		"productId": testProductID,
		"reviewId":  primitive.NewObjectID().Hex(),
	})
	require.NoError(t, h.UpdateReview(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReviewNoContent(t *testing.T) {
	h := NewReviewHandler(&stubService{review: &models.Review{}})

	c, rec := newContext(t, http.MethodDelete, "/", "", map[string]string{
		"productId": testProductID,
		"reviewId":  primitive.NewObjectID().Hex(),
	})
	require.NoError(t, h.DeleteReview(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetSummaryStorageError(t *testing.T) {
	h := NewReviewHandler(&stubService{err: apperrors.StorageMsg("backing store unavailable")})

	c, rec := newContext(t, http.MethodGet, "/", "", map[string]string{"productId": testProductID})
	require.NoError(t, h.GetSummary(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STORAGE_ERROR", body["code"])
}
