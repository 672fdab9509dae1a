package services

import (
	"context"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echo/backend/internal/logger"
	"github.com/echo/backend/internal/models"
)

type MongoFeedbackService struct {
	client      *mongo.Client
	db          *mongo.Database
	feedbackCol *mongo.Collection
	usersCol    *mongo.Collection
}

// AdminFeedbackFilter is the admin table's filter + paging window.
type AdminFeedbackFilter struct {
	Status    string
	Keyword   string
	StartDate string
	EndDate   string
	Limit     int64
	Skip      int64
}

func NewMongoFeedbackService(ctx context.Context, mongoURI, dbName string) (*MongoFeedbackService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	feedbacks := db.Collection("feedbacks")

	// Best-effort indexes.
	_, _ = feedbacks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	logger.Info().Str("db", dbName).Msg("MongoDB connected (feedbacks)")
	return &MongoFeedbackService{
		client:      client,
		db:          db,
		feedbackCol: feedbacks,
		usersCol:    db.Collection("users"),
	}, nil
}

func (s *MongoFeedbackService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Create persists a new feedback after checking the author exists and is not
// suspended or banned.
func (s *MongoFeedbackService) Create(ctx context.Context, req *models.CreateFeedbackRequest) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var author models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"user_id": req.UserID}).Decode(&author); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if author.IsRestricted() {
		return nil, ErrUserRestricted
	}

	now := time.Now().UTC()
	feedback := &models.Feedback{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		UserName:   req.UserName,
		UserEmail:  req.UserEmail,
		Message:    req.Message,
		Likes:      0,
		LikedBy:    []string{},
		Status:     models.FeedbackStatusNormal,
		IsVisible:  true,
		ReportedBy: []models.ReportRef{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.feedbackCol.InsertOne(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *MongoFeedbackService) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var feedback models.Feedback
	if err := s.feedbackCol.FindOne(ctx, bson.M{"_id": id}).Decode(&feedback); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

// List returns all feedback, newest first.
func (s *MongoFeedbackService) List(ctx context.Context) ([]*models.Feedback, error) {
	return s.find(ctx, bson.M{}, nil)
}

// Search filters by case-insensitive substring against author name, email and
// message, and by an inclusive createdAt range. Date-only bounds snap to the
// start and end of the named day.
func (s *MongoFeedbackService) Search(ctx context.Context, keyword, startDate, endDate string) ([]*models.Feedback, error) {
	return s.find(ctx, searchFilter(keyword, startDate, endDate), nil)
}

func (s *MongoFeedbackService) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if opts == nil {
		opts = options.Find()
	}
	opts.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := s.feedbackCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Feedback, 0)
	for cur.Next(ctx) {
		var feedback models.Feedback
		if err := cur.Decode(&feedback); err != nil {
			return nil, err
		}
		out = append(out, &feedback)
	}
	return out, cur.Err()
}

// ToggleLike flips the identifier's membership in likedBy. Both directions
// are conditional updates keyed on current membership, with the likes counter
// adjusted in the same write, so likes always equals the set size and
// concurrent toggles by different identifiers cannot trample each other.
func (s *MongoFeedbackService) ToggleLike(ctx context.Context, id, identifier string) (*models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()

	// Unlike first: matches only when the identifier is present.
	res, err := s.feedbackCol.UpdateOne(ctx,
		bson.M{"_id": id, "liked_by": identifier},
		bson.M{
			"$pull": bson.M{"liked_by": identifier},
			"$inc":  bson.M{"likes": -1},
			"$set":  bson.M{"updated_at": now},
		})
	if err != nil {
		return nil, err
	}

	if res.MatchedCount == 0 {
		// Not currently liked: add, matching only when absent.
		res, err = s.feedbackCol.UpdateOne(ctx,
			bson.M{"_id": id, "liked_by": bson.M{"$ne": identifier}},
			bson.M{
				"$addToSet": bson.M{"liked_by": identifier},
				"$inc":      bson.M{"likes": 1},
				"$set":      bson.M{"updated_at": now},
			})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrFeedbackNotFound
		}
	}

	return s.GetByID(ctx, id)
}

// Delete removes a feedback; only its author may do so.
func (s *MongoFeedbackService) Delete(ctx context.Context, id, requesterUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	feedback, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if feedback.UserID != requesterUserID {
		return ErrNotAuthor
	}

	_, err = s.feedbackCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetStatus transitions a feedback's moderation status, deriving visibility
// from it. Serves both the admin endpoint and the moderation engine.
func (s *MongoFeedbackService) SetStatus(ctx context.Context, id, status string) (*models.Feedback, error) {
	if !models.ValidFeedbackStatus(status) {
		return nil, ErrInvalidStatus
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"is_visible": models.VisibleForStatus(status),
		"updated_at": time.Now().UTC(),
	}}

	var feedback models.Feedback
	err := s.feedbackCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

// RegisterReport increments the feedback's report counter and appends the
// report reference, returning the new count for the engine's flag check.
func (s *MongoFeedbackService) RegisterReport(ctx context.Context, id string, ref models.ReportRef) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$inc":  bson.M{"reports_count": 1},
		"$push": bson.M{"reported_by": ref},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	var feedback models.Feedback
	err := s.feedbackCol.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrFeedbackNotFound
		}
		return 0, err
	}
	return feedback.ReportsCount, nil
}

// BulkDelete removes the given ids best-effort and reports how many went.
func (s *MongoFeedbackService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := s.feedbackCol.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AdminList applies the dashboard filters with a skip/limit window and
// returns the page plus the unpaged total.
func (s *MongoFeedbackService) AdminList(ctx context.Context, f AdminFeedbackFilter) ([]*models.Feedback, int64, error) {
	filter := searchFilter(f.Keyword, f.StartDate, f.EndDate)
	if f.Status != "" && f.Status != "all" && models.ValidFeedbackStatus(f.Status) {
		filter["status"] = f.Status
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	limit = clamp(limit, 1, 100)
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}

	countCtx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	total, err := s.feedbackCol.CountDocuments(countCtx, filter)
	if err != nil {
		return nil, 0, err
	}

	page, err := s.find(ctx, filter, options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// DashboardStats computes the overview card numbers: totals, flagged count,
// week-over-week growth and distinct-author activity.
func (s *MongoFeedbackService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	thisWeekStart := now.AddDate(0, 0, -7)
	prevWeekStart := now.AddDate(0, 0, -14)

	total, err := s.feedbackCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	flagged, err := s.feedbackCol.CountDocuments(ctx, bson.M{"status": models.FeedbackStatusFlagged})
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.feedbackCol.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": thisWeekStart}})
	if err != nil {
		return nil, err
	}
	prevWeek, err := s.feedbackCol.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": prevWeekStart, "$lt": thisWeekStart},
	})
	if err != nil {
		return nil, err
	}

	allEmails, err := s.feedbackCol.Distinct(ctx, "user_email", bson.M{})
	if err != nil {
		return nil, err
	}
	weekEmails, err := s.feedbackCol.Distinct(ctx, "user_email",
		bson.M{"created_at": bson.M{"$gte": thisWeekStart}})
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalFeedback:       total,
		TotalUniqueUsers:    len(allEmails),
		ActiveUsersThisWeek: len(weekEmails),
		ThisWeekCount:       thisWeek,
		FlaggedCount:        flagged,
		FeedbackGrowth:      growthPercent(thisWeek, prevWeek),
	}, nil
}

// ChartData buckets the last seven days of feedback volume by day,
// zero-filling days with no submissions.
func (s *MongoFeedbackService) ChartData(ctx context.Context) ([]models.ChartPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -6)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": start, "$lte": now}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.feedbackCol.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byDate := make(map[string]int64)
	for cur.Next(ctx) {
		var bucket struct {
			Date  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&bucket); err != nil {
			return nil, err
		}
		byDate[bucket.Date] = bucket.Count
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	points := make([]models.ChartPoint, 0, 7)
	for i := 0; i < 7; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, models.ChartPoint{Date: key, Count: byDate[key]})
	}
	return points, nil
}

// searchFilter builds the shared keyword + date-range query.
func searchFilter(keyword, startDate, endDate string) bson.M {
	filter := bson.M{}

	if keyword != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		filter["$or"] = []bson.M{
			{"user_name": re},
			{"user_email": re},
			{"message": re},
		}
	}

	createdAt := bson.M{}
	if t, ok := parseDateBound(startDate, false); ok {
		createdAt["$gte"] = t
	}
	if t, ok := parseDateBound(endDate, true); ok {
		createdAt["$lte"] = t
	}
	if len(createdAt) > 0 {
		filter["created_at"] = createdAt
	}

	return filter
}

// parseDateBound accepts RFC3339 timestamps or bare dates. A bare date snaps
// to start-of-day, or end-of-day when it is the upper bound.
func parseDateBound(s string, end bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if end {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.UTC), true
	}
	return t, true
}

func growthPercent(thisWeek, prevWeek int64) int {
	if prevWeek == 0 {
		if thisWeek > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(thisWeek-prevWeek) / float64(prevWeek) * 100))
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
