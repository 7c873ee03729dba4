package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
	"github.com/SAP-F-2025/interview-prep-service/internal/repositories"
)

// CachedQuestionRepository serves question lookups by id from the cache.
// Questions are immutable once stored, so entries are never invalidated and
// only expire.
type CachedQuestionRepository struct {
	repositories.QuestionRepository
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedQuestionRepository(next repositories.QuestionRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) *CachedQuestionRepository {
	return &CachedQuestionRepository{
		QuestionRepository: next,
		cache:              cache,
		ttl:                ttl,
		logger:             logger,
	}
}

func questionKey(id string) string {
	return "question:" + id
}

func (c *CachedQuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var cached models.Question
	err := c.cache.Get(ctx, questionKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("Question cache read failed", "question_id", id, "error", err)
	}

	q, err := c.QuestionRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, questionKey(id), q, c.ttl); err != nil {
		c.logger.Warn("Question cache write failed", "question_id", id, "error", err)
	}
	return q, nil
}

// cachedRepository swaps the question store of a Repository for the cached one.
type cachedRepository struct {
	repositories.Repository
	questions repositories.QuestionRepository
}

// WithQuestionCache wraps repo so that Question() reads go through the cache.
// Transactions keep using the uncached store.
func WithQuestionCache(repo repositories.Repository, cache CacheService, ttl time.Duration, logger *slog.Logger) repositories.Repository {
	return &cachedRepository{
		Repository: repo,
		questions:  NewCachedQuestionRepository(repo.Question(), cache, ttl, logger),
	}
}

func (r *cachedRepository) Question() repositories.QuestionRepository {
	return r.questions
}
