package models

import "time"

// Audit log actions.
const (
	AuditDelete       = "delete"
	AuditBan          = "ban"
	AuditSuspend      = "suspend"
	AuditApprove      = "approve"
	AuditFlag         = "flag"
	AuditStatusChange = "status_change"
	AuditReviewReport = "review_report"
	AuditOther        = "other"
)

// Audit severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// MaxAuditDetails caps the details field on an audit entry.
const MaxAuditDetails = 1000

// AuditLog is one append-only record of an administrative action.
type AuditLog struct {
	ID         string    `json:"id" bson:"_id"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Admin      string    `json:"admin" bson:"admin"`
	Action     string    `json:"action" bson:"action"`
	TargetType string    `json:"targetType" bson:"target_type"`
	TargetID   string    `json:"targetId" bson:"target_id"`
	Details    string    `json:"details" bson:"details"`
	Severity   string    `json:"severity" bson:"severity"`
}

func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}
