package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExpirer struct {
	mock.Mock
}

func (m *mockExpirer) ExpireSessions(ctx context.Context, now time.Time, limit int) (int, error) {
	args := m.Called(ctx, now, limit)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	expirer := &mockExpirer{}
	expirer.On("ExpireSessions", mock.Anything, fixed, 25).Return(3, nil).Once()

	sweeper := NewTimeoutSweeper(expirer, SweeperConfig{Enabled: true, Schedule: "@every 1m", BatchSize: 25}, discardLogger())
	sweeper.now = func() time.Time { return fixed }

	n, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	expirer.AssertExpectations(t)
}

func TestRunOnceWrapsErrors(t *testing.T) {
	expirer := &mockExpirer{}
	expirer.On("ExpireSessions", mock.Anything, mock.Anything, 100).Return(1, errors.New("db down"))

	sweeper := NewTimeoutSweeper(expirer, SweeperConfig{}, discardLogger())
	n, err := sweeper.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Equal(t, 1, n)
}

func TestStartDisabled(t *testing.T) {
	expirer := &mockExpirer{}
	sweeper := NewTimeoutSweeper(expirer, SweeperConfig{Enabled: false, Schedule: "not a schedule"}, discardLogger())
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
	expirer.AssertNotCalled(t, "ExpireSessions", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	sweeper := NewTimeoutSweeper(&mockExpirer{}, SweeperConfig{Enabled: true, Schedule: "not a schedule"}, discardLogger())
	assert.Error(t, sweeper.Start())
}
