package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/echo/backend/internal/logger"
	"github.com/echo/backend/internal/models"
)

// MongoUserService owns the users collection plus read/delete access to
// feedbacks and reports for the admin views and the deletion cascade.
type MongoUserService struct {
	client      *mongo.Client
	db          *mongo.Database
	usersCol    *mongo.Collection
	feedbackCol *mongo.Collection
	reportsCol  *mongo.Collection
	audit       AuditRecorder
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string, audit AuditRecorder) (*MongoUserService, error) {
	client, err := connectMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	users := db.Collection("users")

	// Best-effort indexes.
	_, _ = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	logger.Info().Str("db", dbName).Msg("MongoDB connected (users)")
	return &MongoUserService{
		client:      client,
		db:          db,
		usersCol:    users,
		feedbackCol: db.Collection("feedbacks"),
		reportsCol:  db.Collection("reports"),
		audit:       audit,
	}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureAdmin seeds the privileged account from config. The admin signs in
// through the same credential path as everyone else; only the role differs.
func (s *MongoUserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		logger.Warn().Msg("admin credentials not configured, skipping admin seed")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			_, err = s.usersCol.UpdateOne(ctx, bson.M{"email": email},
				bson.M{"$set": bson.M{"role": models.RoleAdmin}})
		}
		return err
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userID, err := s.generateUserID(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &models.User{
		UserID:       userID,
		FirstName:    "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		RiskLevel:    models.RiskLow,
		CreatedAt:    now,
		LastLogin:    now,
		LastActive:   now,
	}
	if _, err := s.usersCol.InsertOne(ctx, admin); err != nil {
		return err
	}

	logger.Info().Str("user_id", userID).Msg("admin account seeded")
	return nil
}

// Register creates a user with a freshly generated U-XXXX id.
func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	err := s.usersCol.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		return nil, ErrEmailExists
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID, err := s.generateUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:       userID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
		RiskLevel:    models.RiskLow,
		CreatedAt:    now,
		LastLogin:    now,
		LastActive:   now,
	}

	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// generateUserID draws U-XXXX candidates until one is free, widening the
// numeric space if the short range keeps colliding.
func (s *MongoUserService) generateUserID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		candidate := fmt.Sprintf("U-%04d", 1000+rand.Intn(9000))
		n, err := s.usersCol.CountDocuments(ctx, bson.M{"user_id": candidate})
		if err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return fmt.Sprintf("U-%06d", 100000+rand.Intn(900000)), nil
}

// Login checks credentials and stamps lastLogin.
func (s *MongoUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	now := time.Now().UTC()
	_, _ = s.usersCol.UpdateOne(ctx, bson.M{"user_id": user.UserID},
		bson.M{"$set": bson.M{"last_login": now, "last_active": now}})
	user.LastLogin = now
	user.LastActive = now

	return &user, nil
}

func (s *MongoUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserService) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users newest first with live activity counts, plus the
// aggregate totals for the table header.
func (s *MongoUserService) List(ctx context.Context, status, risk, search string) ([]models.UserWithStats, *models.UserStats, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" && status != "all" {
		filter["status"] = status
	}
	if risk != "" && risk != "all" {
		filter["risk_level"] = risk
	}
	if term := strings.TrimSpace(search); term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		filter["$or"] = []bson.M{
			{"first_name": re},
			{"last_name": re},
			{"email": re},
			{"user_id": re},
		}
	}

	cur, err := s.usersCol.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	users := make([]models.UserWithStats, 0)
	for cur.Next(ctx) {
		var user models.User
		if err := cur.Decode(&user); err != nil {
			return nil, nil, err
		}

		feedbackCount, err := s.feedbackCol.CountDocuments(ctx, bson.M{"user_id": user.UserID})
		if err != nil {
			return nil, nil, err
		}
		reportsReceived, err := s.reportsCol.CountDocuments(ctx, bson.M{"feedback_author.user_id": user.UserID})
		if err != nil {
			return nil, nil, err
		}

		user.ReportsReceived = int(reportsReceived)
		users = append(users, models.UserWithStats{User: user, FeedbackCount: feedbackCount})
	}
	if err := cur.Err(); err != nil {
		return nil, nil, err
	}

	stats, err := s.aggregateStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return users, stats, nil
}

func (s *MongoUserService) aggregateStats(ctx context.Context) (*models.UserStats, error) {
	total, err := s.usersCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	active, err := s.usersCol.CountDocuments(ctx, bson.M{"status": models.UserStatusActive})
	if err != nil {
		return nil, err
	}
	suspended, err := s.usersCol.CountDocuments(ctx, bson.M{"status": models.UserStatusSuspended})
	if err != nil {
		return nil, err
	}
	banned, err := s.usersCol.CountDocuments(ctx, bson.M{"status": models.UserStatusBanned})
	if err != nil {
		return nil, err
	}
	highRisk, err := s.usersCol.CountDocuments(ctx, bson.M{"risk_level": models.RiskHigh})
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		Total:     total,
		Active:    active,
		Suspended: suspended,
		Banned:    banned,
		HighRisk:  highRisk,
	}, nil
}

// Detail returns the user with their feedback and the reports naming them as
// feedback author, newest first.
func (s *MongoUserService) Detail(ctx context.Context, userID string) (*models.UserDetail, error) {
	user, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	sort := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	feedbacks := make([]*models.Feedback, 0)
	cur, err := s.feedbackCol.Find(ctx, bson.M{"user_id": userID}, sort)
	if err != nil {
		return nil, err
	}
	for cur.Next(ctx) {
		var f models.Feedback
		if err := cur.Decode(&f); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		feedbacks = append(feedbacks, &f)
	}
	cur.Close(ctx)
	if err := cur.Err(); err != nil {
		return nil, err
	}

	reports := make([]*models.Report, 0)
	cur, err = s.reportsCol.Find(ctx, bson.M{"feedback_author.user_id": userID}, sort)
	if err != nil {
		return nil, err
	}
	for cur.Next(ctx) {
		var r models.Report
		if err := cur.Decode(&r); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		reports = append(reports, &r)
	}
	cur.Close(ctx)
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return &models.UserDetail{User: user, Feedbacks: feedbacks, Reports: reports}, nil
}

// SetStatus is the admin status transition: it applies the change and writes
// the audit entry.
func (s *MongoUserService) SetStatus(ctx context.Context, admin, userID, status, reason string) (*models.User, error) {
	if !models.ValidUserStatus(status) {
		return nil, ErrInvalidStatus
	}

	user, err := s.applyStatus(ctx, userID, status, reason)
	if err != nil {
		return nil, err
	}

	details := "User set to " + status
	if reason != "" {
		details = "Reason: " + reason
	}
	s.audit.Record(models.AuditLog{
		Admin:      admin,
		Action:     statusAuditAction(status),
		TargetType: "user",
		TargetID:   userID,
		Details:    details,
		Severity:   statusSeverity(status),
	})

	return user, nil
}

// Restrict is the moderation engine's status transition; the engine writes
// its own audit entry.
func (s *MongoUserService) Restrict(ctx context.Context, userID, status, reason string) (*models.User, error) {
	return s.applyStatus(ctx, userID, status, reason)
}

func (s *MongoUserService) applyStatus(ctx context.Context, userID, status, reason string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	var update bson.M
	switch status {
	case models.UserStatusSuspended:
		update = bson.M{"$set": bson.M{
			"status":            status,
			"suspended_at":      now,
			"suspension_reason": reason,
		}}
	case models.UserStatusBanned:
		update = bson.M{"$set": bson.M{
			"status":            status,
			"banned_at":         now,
			"suspension_reason": reason,
		}}
	default:
		update = bson.M{
			"$set":   bson.M{"status": models.UserStatusActive, "suspension_reason": ""},
			"$unset": bson.M{"suspended_at": "", "banned_at": ""},
		}
	}

	var user models.User
	err := s.usersCol.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetRiskLevel writes a risk level directly. Last write wins, whether it came
// from the automatic escalation or an admin override.
func (s *MongoUserService) SetRiskLevel(ctx context.Context, userID, level string) (*models.User, error) {
	if !models.ValidRiskLevel(level) {
		return nil, ErrInvalidRiskLevel
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var user models.User
	err := s.usersCol.FindOneAndUpdate(ctx, bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"risk_level": level}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// RegisterReportAgainst bumps the user's received-report counter and returns
// the updated record for the engine's risk check.
func (s *MongoUserService) RegisterReportAgainst(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var user models.User
	err := s.usersCol.FindOneAndUpdate(ctx, bson.M{"user_id": userID},
		bson.M{"$inc": bson.M{"reports_received": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the user and cascades: their feedback, every report they
// filed or that names them as author, then the user document itself. The user
// goes last so a partial failure can be retried.
func (s *MongoUserService) Delete(ctx context.Context, admin, userID string) error {
	if _, err := s.GetByUserID(ctx, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if _, err := s.feedbackCol.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return err
	}
	if _, err := s.reportsCol.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"reported_by.user_id": userID},
		{"feedback_author.user_id": userID},
	}}); err != nil {
		return err
	}
	if _, err := s.usersCol.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return err
	}

	s.audit.Record(models.AuditLog{
		Admin:      admin,
		Action:     models.AuditDelete,
		TargetType: "user",
		TargetID:   userID,
		Details:    "User and associated data deleted",
		Severity:   models.SeverityHigh,
	})
	return nil
}
