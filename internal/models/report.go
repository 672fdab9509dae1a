package models

import (
	"strings"
	"time"
)

// Report reasons.
const (
	ReasonSpam          = "spam"
	ReasonOffensive     = "offensive"
	ReasonInappropriate = "inappropriate"
	ReasonHarassment    = "harassment"
	ReasonOther         = "other"
)

// Report lifecycle statuses.
const (
	ReportStatusPending     = "pending"
	ReportStatusReviewed    = "reviewed"
	ReportStatusDismissed   = "dismissed"
	ReportStatusActionTaken = "action_taken"
)

// Moderation actions taken on review.
const (
	ActionNone           = "none"
	ActionWarning        = "warning"
	ActionContentRemoved = "content_removed"
	ActionUserSuspended  = "user_suspended"
	ActionUserBanned     = "user_banned"
)

// MaxReportDetails caps the free-text details on a report.
const MaxReportDetails = 500

// ReportParty identifies a user on either side of a report.
type ReportParty struct {
	UserID    string `json:"userId" bson:"user_id"`
	UserName  string `json:"userName" bson:"user_name"`
	UserEmail string `json:"userEmail" bson:"user_email"`
}

type Report struct {
	ID             string      `json:"id" bson:"_id"`
	ReportID       string      `json:"reportId" bson:"report_id"`
	FeedbackID     string      `json:"feedbackId" bson:"feedback_id"`
	ReportedBy     ReportParty `json:"reportedBy" bson:"reported_by"`
	FeedbackAuthor ReportParty `json:"feedbackAuthor" bson:"feedback_author"`
	Reason         string      `json:"reason" bson:"reason"`
	Details        string      `json:"details" bson:"details"`
	Status         string      `json:"status" bson:"status"`
	Action         string      `json:"action" bson:"action"`
	ReviewedBy     string      `json:"reviewedBy,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time  `json:"reviewedAt,omitempty" bson:"reviewed_at,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" bson:"created_at"`
}

func ValidReportReason(s string) bool {
	switch s {
	case ReasonSpam, ReasonOffensive, ReasonInappropriate, ReasonHarassment, ReasonOther:
		return true
	}
	return false
}

func ValidReportStatus(s string) bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusDismissed, ReportStatusActionTaken:
		return true
	}
	return false
}

func ValidReportAction(s string) bool {
	switch s {
	case ActionNone, ActionWarning, ActionContentRemoved, ActionUserSuspended, ActionUserBanned:
		return true
	}
	return false
}

type CreateReportRequest struct {
	FeedbackID     string      `json:"feedbackId" validate:"required"`
	ReportedBy     ReportParty `json:"reportedBy"`
	FeedbackAuthor ReportParty `json:"feedbackAuthor"`
	Reason         string      `json:"reason" validate:"required,oneof=spam offensive inappropriate harassment other"`
	Details        string      `json:"details" validate:"max=500"`
}

func (r *CreateReportRequest) Validate() map[string]string {
	r.Details = strings.TrimSpace(r.Details)
	errs := validationMap(validate.Struct(r))
	if r.ReportedBy.UserID == "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["reportedBy"] = "reportedBy.userId is required"
	}
	return errs
}

type ReviewReportRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=reviewed dismissed action_taken"`
	Action string `json:"action" validate:"required,oneof=none warning content_removed user_suspended user_banned"`
}

func (r *ReviewReportRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}
