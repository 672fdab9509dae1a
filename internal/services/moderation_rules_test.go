package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echo/backend/internal/models"
)

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, models.RiskLow, riskLevelFor(0))
	assert.Equal(t, models.RiskLow, riskLevelFor(4))
	assert.Equal(t, models.RiskMedium, riskLevelFor(5))
	assert.Equal(t, models.RiskMedium, riskLevelFor(9))
	assert.Equal(t, models.RiskHigh, riskLevelFor(10))
	assert.Equal(t, models.RiskHigh, riskLevelFor(50))
}

func TestRiskRank(t *testing.T) {
	assert.Greater(t, riskRank(models.RiskHigh), riskRank(models.RiskMedium))
	assert.Greater(t, riskRank(models.RiskMedium), riskRank(models.RiskLow))
	assert.Equal(t, riskRank(models.RiskLow), riskRank("bogus"))
	assert.Equal(t, riskRank(models.RiskLow), riskRank(""))
}

func TestReviewSeverity(t *testing.T) {
	assert.Equal(t, models.SeverityHigh, reviewSeverity(models.ActionUserBanned))
	assert.Equal(t, models.SeverityMedium, reviewSeverity(models.ActionUserSuspended))
	assert.Equal(t, models.SeverityMedium, reviewSeverity(models.ActionContentRemoved))
	assert.Equal(t, models.SeverityLow, reviewSeverity(models.ActionWarning))
	assert.Equal(t, models.SeverityLow, reviewSeverity(models.ActionNone))
}

func TestStatusSeverity(t *testing.T) {
	assert.Equal(t, models.SeverityHigh, statusSeverity(models.UserStatusBanned))
	assert.Equal(t, models.SeverityMedium, statusSeverity(models.UserStatusSuspended))
	assert.Equal(t, models.SeverityLow, statusSeverity(models.UserStatusActive))
}

func TestStatusAuditAction(t *testing.T) {
	assert.Equal(t, models.AuditBan, statusAuditAction(models.UserStatusBanned))
	assert.Equal(t, models.AuditSuspend, statusAuditAction(models.UserStatusSuspended))
	assert.Equal(t, models.AuditApprove, statusAuditAction(models.UserStatusActive))
}
