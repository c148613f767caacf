package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixmysite/portal/internal/shared/logger"
)

func TestSchedulerManager_RetentionPurgeRunsImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, m.RegisterRetentionPurge(BatchJobFunc(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 2, nil
	}), time.Hour))

	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "ticket-retention-purge", m.Jobs()[0].Name())

	m.Start()
	assert.True(t, m.IsStarted())
	m.Start()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestSchedulerManager_PurgeErrorIsLoggedNotFatal(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	done := make(chan struct{}, 1)
	require.NoError(t, m.RegisterRetentionPurge(BatchJobFunc(func(ctx context.Context) (int, error) {
		done <- struct{}{}
		return 0, errors.New("db down")
	}), 0))

	m.Start()
	defer m.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("purge job did not run")
	}
}
