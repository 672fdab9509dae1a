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

// ReportModerator is the moderation engine surface the report endpoints use.
type ReportModerator interface {
	RecordReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error)
	ReviewReport(ctx context.Context, reportID, status, action, reviewedBy string) (*models.Report, error)
}

// ReportLister reads reports for the admin dashboard.
type ReportLister interface {
	List(ctx context.Context, status string) ([]*models.Report, error)
}

type ReportHandler struct {
	moderation ReportModerator
	reports    ReportLister
}

func NewReportHandler(moderation ReportModerator, reports ReportLister) *ReportHandler {
	return &ReportHandler{moderation: moderation, reports: reports}
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	report, err := h.moderation.RecordReport(r.Context(), &req)
	if err != nil {
		if err == services.ErrDuplicateReport {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("You have already reported this feedback"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to submit report"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewMessageResponse(report, "Report submitted successfully"))
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch reports"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(reports))
}

func (h *ReportHandler) Review(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")

	var req models.ReviewReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
		return
	}

	reviewedBy := middleware.GetUserID(r.Context())
	report, err := h.moderation.ReviewReport(r.Context(), reportID, req.Status, req.Action, reviewedBy)
	if err != nil {
		switch err {
		case services.ErrReportNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
		case services.ErrAlreadyReviewed:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Report has already been reviewed"))
		case services.ErrInvalidAction, services.ErrInvalidStatus:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid review action"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to review report"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(report, "Report reviewed and action taken"))
}
