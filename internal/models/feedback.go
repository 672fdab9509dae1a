package models

import (
	"strings"
	"time"
)

// Feedback moderation statuses.
const (
	FeedbackStatusNormal  = "normal"
	FeedbackStatusFlagged = "flagged"
	FeedbackStatusHidden  = "hidden"
	FeedbackStatusRemoved = "removed"
	FeedbackStatusReview  = "review"
)

// MaxMessageLength caps feedback messages.
const MaxMessageLength = 1000

// ReportRef records one report filed against a feedback, embedded in the
// feedback document.
type ReportRef struct {
	UserID    string    `json:"userId" bson:"user_id"`
	ReportID  string    `json:"reportId" bson:"report_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type Feedback struct {
	ID           string      `json:"id" bson:"_id"`
	UserID       string      `json:"userId" bson:"user_id"`
	UserName     string      `json:"userName" bson:"user_name"`
	UserEmail    string      `json:"userEmail" bson:"user_email"`
	Message      string      `json:"message" bson:"message"`
	Likes        int         `json:"likes" bson:"likes"`
	LikedBy      []string    `json:"likedBy" bson:"liked_by"`
	CommentCount int         `json:"commentCount" bson:"comment_count"`
	Status       string      `json:"status" bson:"status"`
	IsVisible    bool        `json:"isVisible" bson:"is_visible"`
	ReportsCount int         `json:"reportsCount" bson:"reports_count"`
	ReportedBy   []ReportRef `json:"reportedBy" bson:"reported_by"`
	CreatedAt    time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" bson:"updated_at"`
}

func ValidFeedbackStatus(s string) bool {
	switch s {
	case FeedbackStatusNormal, FeedbackStatusFlagged, FeedbackStatusHidden,
		FeedbackStatusRemoved, FeedbackStatusReview:
		return true
	}
	return false
}

// VisibleForStatus derives isVisible from status: hidden and removed feedback
// is never visible, everything else is.
func VisibleForStatus(status string) bool {
	return status != FeedbackStatusHidden && status != FeedbackStatusRemoved
}

type CreateFeedbackRequest struct {
	UserID    string `json:"userId" validate:"required"`
	UserName  string `json:"userName" validate:"required,max=100"`
	UserEmail string `json:"userEmail" validate:"required,email"`
	Message   string `json:"message" validate:"required,max=1000"`
}

func (r *CreateFeedbackRequest) Validate() map[string]string {
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserEmail = strings.ToLower(strings.TrimSpace(r.UserEmail))
	r.Message = strings.TrimSpace(r.Message)
	return validationMap(validate.Struct(r))
}

type ToggleLikeRequest struct {
	UserIdentifier string `json:"userIdentifier"`
}

type DeleteFeedbackRequest struct {
	UserID string `json:"userId" validate:"required"`
}

func (r *DeleteFeedbackRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}

type UpdateFeedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=normal flagged hidden removed review"`
}

func (r *UpdateFeedbackStatusRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (r *BulkDeleteRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}

// DashboardStats backs the admin overview cards.
type DashboardStats struct {
	TotalFeedback       int64 `json:"totalFeedback"`
	TotalUniqueUsers    int   `json:"totalUniqueUsers"`
	ActiveUsersThisWeek int   `json:"activeUsersThisWeek"`
	ThisWeekCount       int64 `json:"thisWeekCount"`
	FlaggedCount        int64 `json:"flaggedCount"`
	FeedbackGrowth      int   `json:"feedbackGrowth"`
}

// ChartPoint is one day of feedback volume for the dashboard chart.
type ChartPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
