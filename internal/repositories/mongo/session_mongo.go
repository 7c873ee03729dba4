package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionMongo stores each session as one document with embedded attempts.
// Answer writes set a single array element, so answers to different
// questions of one session do not overwrite each other.
type SessionMongo struct {
	col  *mongo.Collection
	bind binder
}

func (s *SessionMongo) Create(ctx context.Context, session *models.Session) error {
	_, err := s.col.InsertOne(s.bind.ctx(ctx), session)
	return err
}

func (s *SessionMongo) GetByToken(ctx context.Context, token, ownerID string) (*models.Session, error) {
	var session models.Session
	err := s.col.FindOne(s.bind.ctx(ctx), bson.M{"token": token, "owner_id": ownerID}).Decode(&session)
	if err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (s *SessionMongo) List(ctx context.Context, ownerID string, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	ctx = s.bind.ctx(ctx)
	filter := bson.M{"owner_id": ownerID}
	if filters.Variant != nil {
		filter["variant"] = *filters.Variant
	}
	if filters.Status != nil {
		filter["status"] = *filters.Status
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.col.Find(ctx, filter, pageOptions(filters.Limit, filters.Offset, bson.D{{Key: "started_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var sessions []*models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (s *SessionMongo) SaveAnswer(ctx context.Context, session *models.Session, index int) error {
	if index < 0 || index >= len(session.Attempts) {
		return fmt.Errorf("attempt index %d out of range", index)
	}
	filter := bson.M{"_id": session.ID, "status": models.SessionInProgress}
	update := bson.M{"$set": bson.M{
		fmt.Sprintf("attempts.%d", index): session.Attempts[index],
		"score":                           session.Score,
		"answered_count":                  session.AnsweredCount,
		"updated_at":                      session.UpdatedAt,
	}}

	res, err := s.col.UpdateOne(s.bind.ctx(ctx), filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrStaleSession
	}
	return nil
}

func (s *SessionMongo) Complete(ctx context.Context, session *models.Session) error {
	filter := bson.M{"_id": session.ID, "status": models.SessionInProgress}
	set := bson.M{
		"status":        session.Status,
		"score":         session.Score,
		"completed_at":  session.CompletedAt,
		"completed_day": session.CompletedDay,
		"updated_at":    session.UpdatedAt,
	}
	if session.Feedback != nil {
		set["feedback"] = session.Feedback
	}

	res, err := s.col.UpdateOne(s.bind.ctx(ctx), filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrStaleSession
	}
	return nil
}

func (s *SessionMongo) ListExpired(ctx context.Context, variant models.SessionVariant, now time.Time, limit int) ([]*models.Session, error) {
	ctx = s.bind.ctx(ctx)
	filter := bson.M{
		"variant":    variant,
		"status":     models.SessionInProgress,
		"expires_at": bson.M{"$lt": now},
	}
	cur, err := s.col.Find(ctx, filter, pageOptions(limit, 0, bson.D{{Key: "expires_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []*models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

type rollupGroup struct {
	Key struct {
		Variant  models.SessionVariant `bson:"variant"`
		Category string                `bson:"category"`
		Day      string                `bson:"day"`
	} `bson:"_id"`
	Sessions   int     `bson:"sessions"`
	TotalScore float64 `bson:"total_score"`
}

func (s *SessionMongo) Rollup(ctx context.Context, ownerID string, since time.Time) ([]models.RollupRow, error) {
	ctx = s.bind.ctx(ctx)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "owner_id", Value: ownerID},
			{Key: "status", Value: models.SessionCompleted},
			{Key: "completed_day", Value: bson.D{{Key: "$gte", Value: since.UTC().Format(models.DayLayout)}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "variant", Value: "$variant"},
				{Key: "category", Value: "$category"},
				{Key: "day", Value: "$completed_day"},
			}},
			{Key: "sessions", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_score", Value: bson.D{{Key: "$sum", Value: "$score"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.day", Value: 1}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []rollupGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}

	rows := make([]models.RollupRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, models.RollupRow{
			Variant:    g.Key.Variant,
			Category:   g.Key.Category,
			Day:        g.Key.Day,
			Sessions:   g.Sessions,
			TotalScore: g.TotalScore,
		})
	}
	return rows, nil
}
