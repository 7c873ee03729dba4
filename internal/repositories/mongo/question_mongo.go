package mongo

import (
	"context"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionMongo struct {
	col  *mongo.Collection
	bind binder
}

func (q *QuestionMongo) Create(ctx context.Context, question *models.Question) error {
	_, err := q.col.InsertOne(q.bind.ctx(ctx), question)
	return err
}

func (q *QuestionMongo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	docs := make([]interface{}, len(questions))
	for i, question := range questions {
		docs[i] = question
	}
	_, err := q.col.InsertMany(q.bind.ctx(ctx), docs)
	return err
}

func (q *QuestionMongo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := q.col.FindOne(q.bind.ctx(ctx), bson.M{"_id": id}).Decode(&question); err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (q *QuestionMongo) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	ctx = q.bind.ctx(ctx)
	filter := bson.M{}
	if filters.Category != "" {
		filter["category"] = filters.Category
	}
	if filters.Difficulty != nil {
		filter["difficulty"] = *filters.Difficulty
	}
	if filters.Kind != nil {
		filter["kind"] = *filters.Kind
	}

	total, err := q.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := q.col.Find(ctx, filter, pageOptions(filters.Limit, filters.Offset, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var questions []*models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (q *QuestionMongo) Sample(ctx context.Context, filters repositories.SampleFilters) ([]*models.Question, error) {
	ctx = q.bind.ctx(ctx)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "category", Value: filters.Category},
			{Key: "difficulty", Value: filters.Difficulty},
		}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: filters.Count}}}},
	}

	cur, err := q.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []*models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
