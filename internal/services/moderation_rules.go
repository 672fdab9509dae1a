package services

import "github.com/echo/backend/internal/models"

// FlagThreshold is the report count at which a feedback auto-flags.
const FlagThreshold = 3

// Report volumes at which a user's risk level escalates.
const (
	mediumRiskReports = 5
	highRiskReports   = 10
)

// Suspension reasons applied by the moderation engine.
const (
	reasonMultipleReports  = "Multiple reports received"
	reasonSevereViolations = "Severe violations"
)

// riskLevelFor derives a user's risk level from the number of reports
// received against them.
func riskLevelFor(reportsReceived int) string {
	switch {
	case reportsReceived >= highRiskReports:
		return models.RiskHigh
	case reportsReceived >= mediumRiskReports:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// riskRank orders risk levels so escalation can be compared. Unknown levels
// rank lowest.
func riskRank(level string) int {
	switch level {
	case models.RiskHigh:
		return 2
	case models.RiskMedium:
		return 1
	default:
		return 0
	}
}

// reviewSeverity maps a review action to the audit severity of the entry it
// produces.
func reviewSeverity(action string) string {
	switch action {
	case models.ActionUserBanned:
		return models.SeverityHigh
	case models.ActionUserSuspended, models.ActionContentRemoved:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// statusSeverity maps a user status transition to its audit severity.
func statusSeverity(status string) string {
	switch status {
	case models.UserStatusBanned:
		return models.SeverityHigh
	case models.UserStatusSuspended:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// statusAuditAction maps a user status transition to its audit action.
func statusAuditAction(status string) string {
	switch status {
	case models.UserStatusBanned:
		return models.AuditBan
	case models.UserStatusSuspended:
		return models.AuditSuspend
	default:
		return models.AuditApprove
	}
}
