package services

import (
	"context"
	"time"

	"github.com/echo/backend/internal/logger"
	"github.com/echo/backend/internal/models"
)

// ReportStore is the persistence the engine needs for reports.
type ReportStore interface {
	FindByReportID(ctx context.Context, reportID string) (*models.Report, error)
	Insert(ctx context.Context, report *models.Report) error
	MarkReviewed(ctx context.Context, reportID, status, action, reviewedBy string, at time.Time) (*models.Report, error)
}

// FeedbackEffects is the slice of the feedback service the engine drives.
type FeedbackEffects interface {
	SetStatus(ctx context.Context, feedbackID, status string) (*models.Feedback, error)
	RegisterReport(ctx context.Context, feedbackID string, ref models.ReportRef) (int, error)
}

// UserEffects is the slice of the user service the engine drives.
type UserEffects interface {
	Restrict(ctx context.Context, userID, status, reason string) (*models.User, error)
	RegisterReportAgainst(ctx context.Context, userID string) (*models.User, error)
	SetRiskLevel(ctx context.Context, userID, level string) (*models.User, error)
}

// ModerationService decides and applies the cross-entity effects of a
// moderation event: a new report against a feedback, or an admin's review of
// an existing report.
type ModerationService struct {
	Reports  ReportStore
	Feedback FeedbackEffects
	Users    UserEffects
	Audit    AuditRecorder
}

func NewModerationService(reports ReportStore, feedback FeedbackEffects, users UserEffects, audit AuditRecorder) *ModerationService {
	return &ModerationService{
		Reports:  reports,
		Feedback: feedback,
		Users:    users,
		Audit:    audit,
	}
}

// RecordReport files a report against a feedback and applies its side
// effects: the feedback's report counters grow (auto-flagging at
// FlagThreshold) and the author's received-report count and risk level
// escalate. The report is persisted first; a later effect failing leaves the
// report in place.
func (m *ModerationService) RecordReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	now := time.Now().UTC()

	report := &models.Report{
		FeedbackID:     req.FeedbackID,
		ReportedBy:     req.ReportedBy,
		FeedbackAuthor: req.FeedbackAuthor,
		Reason:         req.Reason,
		Details:        truncate(req.Details, models.MaxReportDetails),
		Status:         models.ReportStatusPending,
		Action:         models.ActionNone,
		CreatedAt:      now,
	}

	if err := m.Reports.Insert(ctx, report); err != nil {
		return nil, err
	}

	ref := models.ReportRef{
		UserID:    report.ReportedBy.UserID,
		ReportID:  report.ReportID,
		CreatedAt: now,
	}
	count, err := m.Feedback.RegisterReport(ctx, report.FeedbackID, ref)
	switch {
	case err == ErrFeedbackNotFound:
		// Report stands even when the feedback is already gone.
	case err != nil:
		logger.Warn().Err(err).Str("feedback_id", report.FeedbackID).
			Msg("report recorded but feedback counters not updated")
	case count >= FlagThreshold:
		if _, err := m.Feedback.SetStatus(ctx, report.FeedbackID, models.FeedbackStatusFlagged); err != nil {
			logger.Warn().Err(err).Str("feedback_id", report.FeedbackID).
				Msg("failed to auto-flag feedback")
		}
	}

	if report.FeedbackAuthor.UserID != "" {
		m.escalateAuthor(ctx, report.FeedbackAuthor.UserID)
	}

	return report, nil
}

// escalateAuthor bumps the author's received-report count and raises their
// risk level when a threshold is crossed. Risk only escalates here; lowering
// it is an explicit admin action.
func (m *ModerationService) escalateAuthor(ctx context.Context, userID string) {
	user, err := m.Users.RegisterReportAgainst(ctx, userID)
	if err != nil {
		if err != ErrUserNotFound {
			logger.Warn().Err(err).Str("user_id", userID).
				Msg("failed to update author report count")
		}
		return
	}

	level := riskLevelFor(user.ReportsReceived)
	if riskRank(level) > riskRank(user.RiskLevel) {
		if _, err := m.Users.SetRiskLevel(ctx, userID, level); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).
				Msg("failed to escalate risk level")
		}
	}
}

// ReviewReport applies an admin's decision on a pending report. The report is
// stamped first, then the action's effect lands on the target feedback or its
// author, and an audit entry is always attempted. Reports that are no longer
// pending are rejected so ban/suspend/remove effects cannot double-apply.
func (m *ModerationService) ReviewReport(ctx context.Context, reportID, status, action, reviewedBy string) (*models.Report, error) {
	if !models.ValidReportAction(action) {
		return nil, ErrInvalidAction
	}
	if status == "" {
		status = models.ReportStatusReviewed
	}
	if !models.ValidReportStatus(status) || status == models.ReportStatusPending {
		return nil, ErrInvalidStatus
	}

	report, err := m.Reports.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	updated, err := m.Reports.MarkReviewed(ctx, reportID, status, action, reviewedBy, now)
	if err != nil {
		return nil, err
	}

	switch action {
	case models.ActionContentRemoved:
		if _, err := m.Feedback.SetStatus(ctx, report.FeedbackID, models.FeedbackStatusRemoved); err != nil && err != ErrFeedbackNotFound {
			return nil, err
		}
	case models.ActionUserSuspended:
		if _, err := m.Users.Restrict(ctx, report.FeedbackAuthor.UserID, models.UserStatusSuspended, reasonMultipleReports); err != nil && err != ErrUserNotFound {
			return nil, err
		}
	case models.ActionUserBanned:
		if _, err := m.Users.Restrict(ctx, report.FeedbackAuthor.UserID, models.UserStatusBanned, reasonSevereViolations); err != nil && err != ErrUserNotFound {
			return nil, err
		}
	}

	m.Audit.Record(models.AuditLog{
		Admin:      reviewedBy,
		Action:     models.AuditReviewReport,
		TargetType: "report",
		TargetID:   reportID,
		Details:    "Action: " + action,
		Severity:   reviewSeverity(action),
	})

	return updated, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
