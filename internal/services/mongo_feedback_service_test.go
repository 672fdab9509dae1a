package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter_Empty(t *testing.T) {
	filter := searchFilter("", "", "")
	assert.Empty(t, filter)
}

func TestSearchFilter_KeywordEscaped(t *testing.T) {
	filter := searchFilter("great (really)", "", "")

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 3)

	re, ok := or[0]["user_name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `great \(really\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
	assert.Contains(t, or[1], "user_email")
	assert.Contains(t, or[2], "message")
}

func TestSearchFilter_DateRange(t *testing.T) {
	filter := searchFilter("", "2026-08-01", "2026-08-31")

	createdAt, ok := filter["created_at"].(bson.M)
	require.True(t, ok)

	gte, ok := createdAt["$gte"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), gte)

	lte, ok := createdAt["$lte"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 23, lte.Hour())
	assert.Equal(t, 59, lte.Minute())
	assert.Equal(t, 31, lte.Day())
}

func TestParseDateBound(t *testing.T) {
	_, ok := parseDateBound("", false)
	assert.False(t, ok)

	_, ok = parseDateBound("not-a-date", false)
	assert.False(t, ok)

	got, ok := parseDateBound("2026-03-15T10:30:00Z", false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), got)

	got, ok = parseDateBound("2026-03-15", false)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, ok = parseDateBound("2026-03-15", true)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, 999_000_000, time.UTC), got)
}

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 0, growthPercent(0, 0))
	assert.Equal(t, 100, growthPercent(5, 0))
	assert.Equal(t, 100, growthPercent(10, 5))
	assert.Equal(t, -50, growthPercent(5, 10))
	assert.Equal(t, 0, growthPercent(10, 10))
	assert.Equal(t, 33, growthPercent(4, 3))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int64(1), clamp(0, 1, 100))
	assert.Equal(t, int64(100), clamp(500, 1, 100))
	assert.Equal(t, int64(20), clamp(20, 1, 100))
}
