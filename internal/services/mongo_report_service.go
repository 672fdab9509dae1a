package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echo/backend/internal/logger"
	"github.com/echo/backend/internal/models"
)

type MongoReportService struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewMongoReportService(ctx context.Context, mongoURI, dbName string) (*MongoReportService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("reports")

	// Best-effort indexes. The compound unique index enforces one report per
	// (feedback, reporter) pair.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "feedback_id", Value: 1}, {Key: "reported_by.user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "report_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "feedback_author.user_id", Value: 1}}},
	})

	logger.Info().Str("db", dbName).Msg("MongoDB connected (reports)")
	return &MongoReportService{client: client, db: db, col: col}, nil
}

func (s *MongoReportService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Insert persists a new report, assigning its document id and sequential
// R-#### report id. Returns ErrDuplicateReport when the reporter has already
// reported this feedback.
func (s *MongoReportService) Insert(ctx context.Context, report *models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	// Cheap pre-check for the common duplicate case; the unique index is the
	// real guard under races.
	err := s.col.FindOne(ctx, bson.M{
		"feedback_id":         report.FeedbackID,
		"reported_by.user_id": report.ReportedBy.UserID,
	}).Err()
	if err == nil {
		return ErrDuplicateReport
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	report.ID = uuid.New().String()

	count, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	report.ReportID = fmt.Sprintf("R-%04d", count+1)

	if _, err := s.col.InsertOne(ctx, report); err == nil {
		return nil
	} else if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	// A duplicate key here is either a racing report from the same user or a
	// report_id collision left behind by deletions. Retry once with a widened
	// numeric suffix to disambiguate.
	report.ReportID = fmt.Sprintf("R-%06d", 100000+rand.Intn(900000))
	if _, err := s.col.InsertOne(ctx, report); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReport
		}
		return err
	}
	return nil
}

func (s *MongoReportService) FindByReportID(ctx context.Context, reportID string) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var report models.Report
	if err := s.col.FindOne(ctx, bson.M{"report_id": reportID}).Decode(&report); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// MarkReviewed stamps the review outcome onto a report and returns the
// updated document.
func (s *MongoReportService) MarkReviewed(ctx context.Context, reportID, status, action, reviewedBy string, at time.Time) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":      status,
		"action":      action,
		"reviewed_by": reviewedBy,
		"reviewed_at": at,
	}}

	var report models.Report
	err := s.col.FindOneAndUpdate(ctx, bson.M{"report_id": reportID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// List returns reports newest first, optionally filtered by exact status.
func (s *MongoReportService) List(ctx context.Context, status string) ([]*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	cur, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Report, 0)
	for cur.Next(ctx) {
		var report models.Report
		if err := cur.Decode(&report); err != nil {
			return nil, err
		}
		out = append(out, &report)
	}
	return out, cur.Err()
}
