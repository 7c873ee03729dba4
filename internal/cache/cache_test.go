package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mini, client
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mini, client := setupRedis(t)
	c := NewRedisCache(client, "test", discardLogger())
	ctx := context.Background()

	var out map[string]int
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, 1, out["a"])
	assert.Equal(t, time.Minute, mini.TTL("test:k"))
}

func TestRedisCacheDropsCorruptEntries(t *testing.T) {
	mini, client := setupRedis(t)
	c := NewRedisCache(client, "test", discardLogger())
	require.NoError(t, mini.Set("test:bad", "{not json"))

	var out map[string]int
	assert.ErrorIs(t, c.Get(context.Background(), "bad", &out), ErrCacheMiss)
	assert.False(t, mini.Exists("test:bad"))
}

type mockQuestionRepository struct {
	mock.Mock
	repositories.QuestionRepository
}

func (m *mockQuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if q := args.Get(0); q != nil {
		return q.(*models.Question), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCachedQuestionRepository(t *testing.T) {
	_, client := setupRedis(t)
	ctx := context.Background()
	next := &mockQuestionRepository{}
	q := &models.Question{ID: "q1", Prompt: "Explain", Kind: models.KindTechnical, ExpectedKeywords: []string{"a"}}
	next.On("GetByID", ctx, "q1").Return(q, nil).Once()
	next.On("GetByID", ctx, "missing").Return(nil, repositories.ErrNotFound)

	repo := NewCachedQuestionRepository(next, NewRedisCache(client, "test", discardLogger()), time.Minute, discardLogger())

	first, err := repo.GetByID(ctx, "q1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, first.Prompt, second.Prompt)
	assert.Equal(t, []string{"a"}, []string(second.ExpectedKeywords))

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, repositories.IsNotFoundError(err))
	next.AssertExpectations(t)
}

func TestRedisCounterWindow(t *testing.T) {
	mini, client := setupRedis(t)
	counter := NewRedisCounter(client, "rl")
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := counter.Incr(ctx, "user-1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, time.Minute, mini.TTL("rl:user-1"))

	mini.FastForward(time.Minute + time.Second)
	n, err := counter.Incr(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisCounterRepairsMissingWindow(t *testing.T) {
	mini, client := setupRedis(t)
	counter := NewRedisCounter(client, "rl")
	require.NoError(t, mini.Set("rl:user-2", "5"))
	require.Equal(t, time.Duration(0), mini.TTL("rl:user-2"))

	n, err := counter.Incr(context.Background(), "user-2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, time.Minute, mini.TTL("rl:user-2"))

	mini.FastForward(30 * time.Second)
	_, err = counter.Incr(context.Background(), "user-2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mini.TTL("rl:user-2"))
}
