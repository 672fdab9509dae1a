package models

import (
	"strings"
	"time"
)

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// Risk levels derived from report volume (admin-overridable).
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID           string     `json:"userId" bson:"user_id"`
	FirstName        string     `json:"firstName" bson:"first_name"`
	LastName         string     `json:"lastName" bson:"last_name"`
	Email            string     `json:"email" bson:"email"`
	PasswordHash     string     `json:"-" bson:"password_hash"`
	Role             string     `json:"role" bson:"role"`
	Status           string     `json:"status" bson:"status"`
	RiskLevel        string     `json:"riskLevel" bson:"risk_level"`
	ReportsReceived  int        `json:"reportsReceived" bson:"reports_received"`
	SuspendedAt      *time.Time `json:"suspendedAt,omitempty" bson:"suspended_at,omitempty"`
	BannedAt         *time.Time `json:"bannedAt,omitempty" bson:"banned_at,omitempty"`
	SuspensionReason string     `json:"suspensionReason" bson:"suspension_reason"`
	CreatedAt        time.Time  `json:"createdAt" bson:"created_at"`
	LastLogin        time.Time  `json:"lastLogin" bson:"last_login"`
	LastActive       time.Time  `json:"lastActive" bson:"last_active"`
}

// IsRestricted reports whether the user is blocked from posting.
func (u *User) IsRestricted() bool {
	return u.Status == UserStatusSuspended || u.Status == UserStatusBanned
}

func ValidUserStatus(s string) bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return true
	}
	return false
}

func ValidRiskLevel(s string) bool {
	switch s {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// UserWithStats is a user enriched with live-computed activity counts for the
// admin user table.
type UserWithStats struct {
	User          `bson:",inline"`
	FeedbackCount int64 `json:"feedbackCount"`
}

// UserStats holds the aggregate totals shown above the admin user table.
type UserStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
	Banned    int64 `json:"banned"`
	HighRisk  int64 `json:"highRisk"`
}

// UserDetail is a user plus everything they have posted and every report
// naming them as feedback author.
type UserDetail struct {
	User      *User       `json:"user"`
	Feedbacks []*Feedback `json:"feedbacks"`
	Reports   []*Report   `json:"reports"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() map[string]string {
	r.Normalize()
	return validationMap(validate.Struct(r))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() map[string]string {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validationMap(validate.Struct(r))
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended banned"`
	Reason string `json:"reason"`
}

func (r *UpdateUserStatusRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}

type UpdateRiskLevelRequest struct {
	RiskLevel string `json:"riskLevel" validate:"required,oneof=low medium high"`
}

func (r *UpdateRiskLevelRequest) Validate() map[string]string {
	return validationMap(validate.Struct(r))
}
