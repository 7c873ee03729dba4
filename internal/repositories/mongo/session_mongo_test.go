package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func answeredSession() *models.Session {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Session{
		ID:             "s1",
		OwnerID:        "user-1",
		Token:          "tok",
		Variant:        models.VariantTest,
		Status:         models.SessionInProgress,
		TotalQuestions: 2,
		AnsweredCount:  1,
		Score:          50,
		UpdatedAt:      now,
		Attempts: models.QuestionAttempts{
			{QuestionID: "q1", Order: 1, Points: 5},
			{QuestionID: "q2", Order: 2, Points: 5, Answer: "B", Answered: true, PointsEarned: 5, AnsweredAt: &now},
		},
	}
}

func TestSessionMongoSaveAnswer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sets only the answered attempt", func(mt *mtest.T) {
		repo := &SessionMongo{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.SaveAnswer(context.Background(), answeredSession(), 1))

		cmd := mt.GetStartedEvent().Command
		update := cmd.Lookup("updates", "0")
		assert.Equal(mt, "s1", update.Document().Lookup("q", "_id").StringValue())
		assert.Equal(mt, string(models.SessionInProgress), update.Document().Lookup("q", "status").StringValue())

		set := update.Document().Lookup("u", "$set").Document()
		assert.Equal(mt, "q2", set.Lookup("attempts.1", "question_id").StringValue())
		assert.Equal(mt, "B", set.Lookup("attempts.1", "answer").StringValue())
		assert.Equal(mt, int64(1), set.Lookup("answered_count").AsInt64())
		assert.Equal(mt, float64(50), set.Lookup("score").Double())

		_, err := set.LookupErr("attempts")
		assert.Error(mt, err)
		_, err = set.LookupErr("attempts.0")
		assert.Error(mt, err)
	})

	mt.Run("closed session is stale", func(mt *mtest.T) {
		repo := &SessionMongo{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SaveAnswer(context.Background(), answeredSession(), 1)
		assert.ErrorIs(mt, err, repositories.ErrStaleSession)
	})

	mt.Run("index out of range", func(mt *mtest.T) {
		repo := &SessionMongo{col: mt.Coll}
		err := repo.SaveAnswer(context.Background(), answeredSession(), 2)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repositories.ErrStaleSession)
	})
}
