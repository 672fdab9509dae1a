package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echo/backend/internal/middleware"
	"github.com/echo/backend/internal/models"
	"github.com/echo/backend/internal/services"
)

type fakeFeedbackService struct {
	feedbacks map[string]*models.Feedback
	createErr error
	liked     map[string][]string
}

func newFakeFeedbackService() *fakeFeedbackService {
	return &fakeFeedbackService{
		feedbacks: make(map[string]*models.Feedback),
		liked:     make(map[string][]string),
	}
}

func (f *fakeFeedbackService) Create(ctx context.Context, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	fb := &models.Feedback{
		ID:        "f1",
		UserID:    req.UserID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		Message:   req.Message,
		Status:    models.FeedbackStatusNormal,
		IsVisible: true,
	}
	f.feedbacks[fb.ID] = fb
	return fb, nil
}

func (f *fakeFeedbackService) List(ctx context.Context) ([]*models.Feedback, error) {
	out := make([]*models.Feedback, 0, len(f.feedbacks))
	for _, fb := range f.feedbacks {
		out = append(out, fb)
	}
	return out, nil
}

func (f *fakeFeedbackService) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	fb, ok := f.feedbacks[id]
	if !ok {
		return nil, services.ErrFeedbackNotFound
	}
	return fb, nil
}

func (f *fakeFeedbackService) Search(ctx context.Context, keyword, startDate, endDate string) ([]*models.Feedback, error) {
	return f.List(ctx)
}

func (f *fakeFeedbackService) ToggleLike(ctx context.Context, id, identifier string) (*models.Feedback, error) {
	fb, ok := f.feedbacks[id]
	if !ok {
		return nil, services.ErrFeedbackNotFound
	}
	f.liked[id] = append(f.liked[id], identifier)
	fb.Likes++
	return fb, nil
}

func (f *fakeFeedbackService) Delete(ctx context.Context, id, requesterUserID string) error {
	fb, ok := f.feedbacks[id]
	if !ok {
		return services.ErrFeedbackNotFound
	}
	if fb.UserID != requesterUserID {
		return services.ErrNotAuthor
	}
	delete(f.feedbacks, id)
	return nil
}

func feedbackRouter(svc FeedbackService) http.Handler {
	h := NewFeedbackHandler(svc)
	r := chi.NewRouter()
	r.Get("/feedbacks", h.List)
	r.Get("/feedbacks/{id}", h.GetByID)
	r.Post("/feedbacks", h.Create)
	r.Put("/feedbacks/{id}/like", h.ToggleLike)
	r.Delete("/feedbacks/{id}", h.Delete)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestFeedbackCreate(t *testing.T) {
	svc := newFakeFeedbackService()
	router := feedbackRouter(svc)

	body := `{"userId":"U-0001","userName":"Jamie","userEmail":"jamie@example.com","message":"love it"}`
	req := httptest.NewRequest(http.MethodPost, "/feedbacks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Contains(t, svc.feedbacks, "f1")
}

func TestFeedbackCreate_ValidationErrors(t *testing.T) {
	router := feedbackRouter(newFakeFeedbackService())

	req := httptest.NewRequest(http.MethodPost, "/feedbacks", strings.NewReader(`{"message":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "userId")
	assert.Contains(t, resp.Errors, "message")
}

func TestFeedbackCreate_RestrictedAuthor(t *testing.T) {
	svc := newFakeFeedbackService()
	svc.createErr = services.ErrUserRestricted
	router := feedbackRouter(svc)

	body := `{"userId":"U-0001","userName":"Jamie","userEmail":"jamie@example.com","message":"love it"}`
	req := httptest.NewRequest(http.MethodPost, "/feedbacks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFeedbackGetByID_NotFound(t *testing.T) {
	router := feedbackRouter(newFakeFeedbackService())

	req := httptest.NewRequest(http.MethodGet, "/feedbacks/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeedbackToggleLike_BodyIdentifier(t *testing.T) {
	svc := newFakeFeedbackService()
	svc.feedbacks["f1"] = &models.Feedback{ID: "f1", UserID: "U-0001"}
	router := feedbackRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/feedbacks/f1/like", strings.NewReader(`{"userIdentifier":"visitor-9"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"visitor-9"}, svc.liked["f1"])
}

func TestFeedbackToggleLike_FallsBackToClientIdentifier(t *testing.T) {
	svc := newFakeFeedbackService()
	svc.feedbacks["f1"] = &models.Feedback{ID: "f1", UserID: "U-0001"}

	h := NewFeedbackHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.UserIdentifier)
	r.Put("/feedbacks/{id}/like", h.ToggleLike)

	req := httptest.NewRequest(http.MethodPut, "/feedbacks/f1/like", strings.NewReader(`{}`))
	req.RemoteAddr = "198.51.100.4:2222"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"198.51.100.4"}, svc.liked["f1"])
}

func TestFeedbackDelete_NotAuthor(t *testing.T) {
	svc := newFakeFeedbackService()
	svc.feedbacks["f1"] = &models.Feedback{ID: "f1", UserID: "U-0001"}
	router := feedbackRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/feedbacks/f1", strings.NewReader(`{"userId":"U-0002"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, svc.feedbacks, "f1")
}

func TestFeedbackDelete_ByAuthor(t *testing.T) {
	svc := newFakeFeedbackService()
	svc.feedbacks["f1"] = &models.Feedback{ID: "f1", UserID: "U-0001"}
	router := feedbackRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/feedbacks/f1", strings.NewReader(`{"userId":"U-0001"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, svc.feedbacks, "f1")
}
