package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echo/backend/internal/middleware"
	"github.com/echo/backend/internal/models"
	"github.com/echo/backend/internal/services"
)

// FeedbackService is the slice of the feedback service the public endpoints
// need.
type FeedbackService interface {
	Create(ctx context.Context, req *models.CreateFeedbackRequest) (*models.Feedback, error)
	List(ctx context.Context) ([]*models.Feedback, error)
	GetByID(ctx context.Context, id string) (*models.Feedback, error)
	Search(ctx context.Context, keyword, startDate, endDate string) ([]*models.Feedback, error)
	ToggleLike(ctx context.Context, id, identifier string) (*models.Feedback, error)
	Delete(ctx context.Context, id, requesterUserID string) error
}

type FeedbackHandler struct {
	feedback FeedbackService
}

func NewFeedbackHandler(feedback FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	feedback, err := h.feedback.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case services.ErrUserNotFound, services.ErrUserRestricted:
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Account is not allowed to post feedback"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create feedback"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(feedback))
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.feedback.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch feedback"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedbacks))
}

func (h *FeedbackHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	feedbacks, err := h.feedback.Search(r.Context(), q.Get("keyword"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to search feedback"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedbacks))
}

func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	feedback, err := h.feedback.GetByID(r.Context(), id)
	if err != nil {
		if err == services.ErrFeedbackNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Feedback not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch feedback"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedback))
}

func (h *FeedbackHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.ToggleLikeRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	identifier := req.UserIdentifier
	if identifier == "" {
		identifier = middleware.GetIdentifier(r.Context())
	}
	if identifier == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("userIdentifier is required"))
		return
	}

	feedback, err := h.feedback.ToggleLike(r.Context(), id, identifier)
	if err != nil {
		if err == services.ErrFeedbackNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Feedback not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to toggle like"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedback))
}

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.DeleteFeedbackRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	requester := req.UserID
	if requester == "" {
		requester = middleware.GetUserID(r.Context())
	}
	if requester == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("userId is required"))
		return
	}

	if err := h.feedback.Delete(r.Context(), id, requester); err != nil {
		switch err {
		case services.ErrFeedbackNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Feedback not found"))
		case services.ErrNotAuthor:
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only the author may delete this feedback"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete feedback"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "Feedback deleted successfully"))
}
