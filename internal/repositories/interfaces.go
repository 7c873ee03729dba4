package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/models"
)

var (
	// ErrNotFound is returned by every store when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleSession is returned when a guarded session write finds the
	// session no longer in progress.
	ErrStaleSession = errors.New("session is no longer in progress")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Category   string               `json:"category"`
	Difficulty *models.Difficulty   `json:"difficulty"`
	Kind       *models.QuestionKind `json:"kind"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

type SampleFilters struct {
	Category   string            `json:"category"`
	Difficulty models.Difficulty `json:"difficulty"`
	Count      int               `json:"count"`
}

type SessionFilters struct {
	Variant *models.SessionVariant `json:"variant"`
	Status  *models.SessionStatus  `json:"status"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// ===== REPOSITORY MANAGER =====

// Repository groups the stores used by the services. WithTransaction runs fn
// against a Repository bound to a single unit of work.
type Repository interface {
	Question() QuestionRepository
	Session() SessionRepository
	UserStats() UserStatsRepository

	WithTransaction(ctx context.Context, fn func(tx Repository) error) error
	AutoMigrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== HELPERS =====

// DefaultLimit bounds list queries that arrive without a limit.
const DefaultLimit = 20

// MaxLimit caps list queries.
const MaxLimit = 100

func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Since returns the start of the UTC day windowDays-1 days before now, so a
// window of 7 covers today and the six days before it.
func Since(now time.Time, windowDays int) time.Time {
	today := now.UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -(windowDays - 1))
}
