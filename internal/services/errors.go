package services

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserRestricted  = errors.New("user is suspended or banned")

	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrNotAuthor        = errors.New("only the author may delete this feedback")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRiskLevel = errors.New("invalid risk level")

	ErrReportNotFound  = errors.New("report not found")
	ErrDuplicateReport = errors.New("feedback already reported by this user")
	ErrAlreadyReviewed = errors.New("report has already been reviewed")
	ErrInvalidAction   = errors.New("invalid moderation action")
)
