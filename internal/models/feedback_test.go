package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleForStatus(t *testing.T) {
	assert.True(t, VisibleForStatus(FeedbackStatusNormal))
	assert.True(t, VisibleForStatus(FeedbackStatusFlagged))
	assert.True(t, VisibleForStatus(FeedbackStatusReview))
	assert.False(t, VisibleForStatus(FeedbackStatusHidden))
	assert.False(t, VisibleForStatus(FeedbackStatusRemoved))
}

func TestValidFeedbackStatus(t *testing.T) {
	for _, s := range []string{"normal", "flagged", "hidden", "removed", "review"} {
		assert.True(t, ValidFeedbackStatus(s), s)
	}
	assert.False(t, ValidFeedbackStatus("deleted"))
	assert.False(t, ValidFeedbackStatus(""))
}

func TestCreateFeedbackRequest_Validate(t *testing.T) {
	req := &CreateFeedbackRequest{
		UserID:    "U-1234",
		UserName:  "  Jamie  ",
		UserEmail: "Jamie@Example.COM ",
		Message:   " great app ",
	}

	errs := req.Validate()
	assert.Empty(t, errs)
	assert.Equal(t, "Jamie", req.UserName)
	assert.Equal(t, "jamie@example.com", req.UserEmail)
	assert.Equal(t, "great app", req.Message)
}

func TestCreateFeedbackRequest_MissingFields(t *testing.T) {
	req := &CreateFeedbackRequest{}

	errs := req.Validate()
	assert.Contains(t, errs, "userId")
	assert.Contains(t, errs, "userName")
	assert.Contains(t, errs, "userEmail")
	assert.Contains(t, errs, "message")
}

func TestCreateFeedbackRequest_MessageTooLong(t *testing.T) {
	req := &CreateFeedbackRequest{
		UserID:    "U-1234",
		UserName:  "Jamie",
		UserEmail: "jamie@example.com",
		Message:   strings.Repeat("x", MaxMessageLength+1),
	}

	errs := req.Validate()
	assert.Contains(t, errs, "message")
}

func TestUpdateFeedbackStatusRequest_Validate(t *testing.T) {
	req := &UpdateFeedbackStatusRequest{Status: "hidden"}
	assert.Empty(t, req.Validate())

	req.Status = "vanished"
	assert.Contains(t, req.Validate(), "status")

	req.Status = ""
	assert.Contains(t, req.Validate(), "status")
}

func TestBulkDeleteRequest_Validate(t *testing.T) {
	req := &BulkDeleteRequest{IDs: []string{"a", "b"}}
	assert.Empty(t, req.Validate())

	req.IDs = nil
	assert.Contains(t, req.Validate(), "iDs")
}
