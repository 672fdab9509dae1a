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

// UserAdminService is the slice of the user service behind the admin user
// management endpoints.
type UserAdminService interface {
	List(ctx context.Context, status, risk, search string) ([]models.UserWithStats, *models.UserStats, error)
	Detail(ctx context.Context, userID string) (*models.UserDetail, error)
	SetStatus(ctx context.Context, admin, userID, status, reason string) (*models.User, error)
	SetRiskLevel(ctx context.Context, userID, level string) (*models.User, error)
	Delete(ctx context.Context, admin, userID string) error
}

type UserHandler struct {
	users UserAdminService
}

func NewUserHandler(users UserAdminService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, stats, err := h.users.List(r.Context(), q.Get("status"), q.Get("riskLevel"), q.Get("search"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch users"))
		return
	}

	writeJSON(w, http.StatusOK, models.UserListResponse{
		Success: true,
		Data:    users,
		Stats:   stats,
	})
}

func (h *UserHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	detail, err := h.users.Detail(r.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch user details"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(detail))
}

func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.UpdateUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	admin := middleware.GetUserID(r.Context())
	user, err := h.users.SetStatus(r.Context(), admin, userID, req.Status, req.Reason)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		case services.ErrInvalidStatus:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid status"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update user status"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(user, "User "+req.Status+" successfully"))
}

func (h *UserHandler) SetRiskLevel(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.UpdateRiskLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	user, err := h.users.SetRiskLevel(r.Context(), userID, req.RiskLevel)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		case services.ErrInvalidRiskLevel:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid risk level"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update risk level"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(user, "Risk level updated"))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	admin := middleware.GetUserID(r.Context())
	if err := h.users.Delete(r.Context(), admin, userID); err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete user"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "User and all associated data deleted"))
}
