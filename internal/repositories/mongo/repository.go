package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	questionsCollection = "questions"
	sessionsCollection  = "sessions"
	statsCollection     = "user_stats"
)

// Options tunes the document store.
type Options struct {
	// Transactions enables multi-document transactions. They need a replica
	// set; without it WithTransaction runs the callback directly.
	Transactions bool
}

// Repository is the MongoDB-backed store.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
	opts   Options
	sess   mongo.Session

	questions *QuestionMongo
	sessions  *SessionMongo
	stats     *UserStatsMongo
}

func NewRepository(client *mongo.Client, database string, opts Options) *Repository {
	db := client.Database(database)
	return newRepository(client, db, opts, nil)
}

func newRepository(client *mongo.Client, db *mongo.Database, opts Options, sess mongo.Session) *Repository {
	b := binder{sess: sess}
	return &Repository{
		client:    client,
		db:        db,
		opts:      opts,
		sess:      sess,
		questions: &QuestionMongo{col: db.Collection(questionsCollection), bind: b},
		sessions:  &SessionMongo{col: db.Collection(sessionsCollection), bind: b},
		stats:     &UserStatsMongo{col: db.Collection(statsCollection), bind: b},
	}
}

func (r *Repository) Question() repositories.QuestionRepository {
	return r.questions
}

func (r *Repository) Session() repositories.SessionRepository {
	return r.sessions
}

func (r *Repository) UserStats() repositories.UserStatsRepository {
	return r.stats
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	if !r.opts.Transactions || r.sess != nil {
		return fn(r)
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	tx := newRepository(r.client, r.db, r.opts, sess)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(tx)
	})
	return err
}

// AutoMigrate creates the indexes the queries rely on.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		questionsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "difficulty", Value: 1}}},
			{Keys: bson.D{{Key: "kind", Value: 1}}},
		},
		sessionsCollection: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}, {Key: "completed_day", Value: 1}}},
			{Keys: bson.D{{Key: "variant", Value: 1}, {Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := r.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *Repository) Close() error {
	return r.client.Disconnect(context.Background())
}

// binder attaches the transaction session, when there is one, to each call.
type binder struct {
	sess mongo.Session
}

func (b binder) ctx(ctx context.Context) context.Context {
	if b.sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, b.sess)
}

func translateError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}

// pageOptions converts limit/offset filters into find options.
func pageOptions(limit, offset int, sort bson.D) *options.FindOptions {
	opts := options.Find().
		SetLimit(int64(repositories.NormalizeLimit(limit))).
		SetSort(sort)
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	return opts
}
