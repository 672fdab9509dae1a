package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/echo/backend/internal/models"
	"github.com/echo/backend/internal/services"
)

// AdminFeedbackService is the feedback surface behind the admin dashboard.
type AdminFeedbackService interface {
	AdminList(ctx context.Context, f services.AdminFeedbackFilter) ([]*models.Feedback, int64, error)
	SetStatus(ctx context.Context, id, status string) (*models.Feedback, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	ChartData(ctx context.Context) ([]models.ChartPoint, error)
}

// AuditLister reads the audit log for the dashboard.
type AuditLister interface {
	List(ctx context.Context, action, severity string) ([]models.AuditLog, error)
}

type AdminHandler struct {
	feedback AdminFeedbackService
	audit    AuditLister
}

func NewAdminHandler(feedback AdminFeedbackService, audit AuditLister) *AdminHandler {
	return &AdminHandler{feedback: feedback, audit: audit}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.feedback.DashboardStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to compute stats"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stats))
}

func (h *AdminHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	points, err := h.feedback.ChartData(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to compute chart data"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(points))
}

func (h *AdminHandler) FilteredFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	skip, _ := strconv.ParseInt(q.Get("skip"), 10, 64)

	filter := services.AdminFeedbackFilter{
		Status:    q.Get("status"),
		Keyword:   q.Get("keyword"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Limit:     limit,
		Skip:      skip,
	}

	page, total, err := h.feedback.AdminList(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch feedback"))
		return
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	writeJSON(w, http.StatusOK, models.PagedResponse{
		Success:    true,
		Count:      len(page),
		Total:      total,
		Pagination: models.Pagination{Limit: filter.Limit, Skip: filter.Skip},
		Data:       page,
	})
}

func (h *AdminHandler) UpdateFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateFeedbackStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	feedback, err := h.feedback.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch err {
		case services.ErrFeedbackNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Feedback not found"))
		case services.ErrInvalidStatus:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid status"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update feedback status"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(feedback))
}

func (h *AdminHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req models.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	deleted, err := h.feedback.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete feedback"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int64{"deletedCount": deleted}))
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.audit.List(r.Context(), q.Get("action"), q.Get("severity"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch audit log"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entries))
}
