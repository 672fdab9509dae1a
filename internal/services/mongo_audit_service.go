package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/echo/backend/internal/logger"
	"github.com/echo/backend/internal/models"
)

// AuditRecorder is the write side of the audit log. Record never blocks the
// caller and its failures are swallowed.
type AuditRecorder interface {
	Record(entry models.AuditLog)
}

type MongoAuditService struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewMongoAuditService(ctx context.Context, mongoURI, dbName string) (*MongoAuditService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("audit_logs")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{Keys: bson.D{{Key: "severity", Value: 1}}},
	})

	return &MongoAuditService{client: client, db: db, col: col}, nil
}

func (s *MongoAuditService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Record appends an audit entry in the background. The triggering request is
// never blocked and write failures are only logged.
func (s *MongoAuditService) Record(entry models.AuditLog) {
	if entry.Action == "" || entry.TargetType == "" {
		return
	}

	entry.ID = uuid.New().String()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Admin == "" {
		entry.Admin = "admin"
	}
	if !models.ValidSeverity(entry.Severity) {
		entry.Severity = models.SeverityLow
	}
	if len(entry.Details) > models.MaxAuditDetails {
		entry.Details = entry.Details[:models.MaxAuditDetails]
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
		defer cancel()

		if _, err := s.col.InsertOne(ctx, entry); err != nil {
			logger.Warn().
				Err(err).
				Str("action", entry.Action).
				Str("target_id", entry.TargetID).
				Msg("audit log write failed")
		}
	}()
}

// List returns audit entries newest first, optionally filtered by exact action
// and/or severity.
func (s *MongoAuditService) List(ctx context.Context, action, severity string) ([]models.AuditLog, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := bson.M{}
	if action != "" && action != "all" {
		filter["action"] = action
	}
	if severity != "" && severity != "all" {
		filter["severity"] = severity
	}

	cur, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(500))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.AuditLog, 0)
	for cur.Next(ctx) {
		var entry models.AuditLog
		if err := cur.Decode(&entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, cur.Err()
}
