package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/echo/backend/internal/models"
	"github.com/echo/backend/internal/services"
)

type fakeModerator struct {
	recordErr  error
	reviewErr  error
	reviewedBy string
	lastAction string
}

func (f *fakeModerator) RecordReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &models.Report{ReportID: "R-0001", FeedbackID: req.FeedbackID, Status: models.ReportStatusPending}, nil
}

func (f *fakeModerator) ReviewReport(ctx context.Context, reportID, status, action, reviewedBy string) (*models.Report, error) {
	if f.reviewErr != nil {
		return nil, f.reviewErr
	}
	f.reviewedBy = reviewedBy
	f.lastAction = action
	return &models.Report{ReportID: reportID, Status: models.ReportStatusReviewed, Action: action}, nil
}

type fakeReportLister struct {
	reports []*models.Report
}

func (f *fakeReportLister) List(ctx context.Context, status string) ([]*models.Report, error) {
	return f.reports, nil
}

func reportRouter(mod ReportModerator) http.Handler {
	h := NewReportHandler(mod, &fakeReportLister{})
	r := chi.NewRouter()
	r.Post("/reports", h.Create)
	r.Get("/reports", h.List)
	r.Put("/reports/{reportId}/review", h.Review)
	return r
}

func TestReportCreate(t *testing.T) {
	router := reportRouter(&fakeModerator{})

	body := `{"feedbackId":"f1","reportedBy":{"userId":"U-0002"},"reason":"spam"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReportCreate_MissingReporter(t *testing.T) {
	router := reportRouter(&fakeModerator{})

	body := `{"feedbackId":"f1","reason":"spam"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportCreate_Duplicate(t *testing.T) {
	router := reportRouter(&fakeModerator{recordErr: services.ErrDuplicateReport})

	body := `{"feedbackId":"f1","reportedBy":{"userId":"U-0002"},"reason":"spam"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "You have already reported this feedback", resp.Error)
}

func TestReportReview(t *testing.T) {
	mod := &fakeModerator{}
	router := reportRouter(mod)

	body := `{"status":"action_taken","action":"content_removed"}`
	req := httptest.NewRequest(http.MethodPut, "/reports/R-0001/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "content_removed", mod.lastAction)
}

func TestReportReview_InvalidAction(t *testing.T) {
	router := reportRouter(&fakeModerator{})

	body := `{"action":"obliterate"}`
	req := httptest.NewRequest(http.MethodPut, "/reports/R-0001/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportReview_AlreadyReviewed(t *testing.T) {
	router := reportRouter(&fakeModerator{reviewErr: services.ErrAlreadyReviewed})

	body := `{"action":"none"}`
	req := httptest.NewRequest(http.MethodPut, "/reports/R-0001/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReportReview_NotFound(t *testing.T) {
	router := reportRouter(&fakeModerator{reviewErr: services.ErrReportNotFound})

	body := `{"action":"none"}`
	req := httptest.NewRequest(http.MethodPut, "/reports/R-0001/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
