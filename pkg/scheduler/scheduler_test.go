package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/scheduler/mocks"
)

func TestScheduler_RunOnce(t *testing.T) {
	runner := &mocks.RunnerMock{RunFunc: func(context.Context) (domain.Run, error) {
		return domain.Run{ID: "r1", Status: domain.RunOK}, nil
	}}
	s := NewScheduler(runner, 0)

	_, ok := s.LastRun()
	assert.False(t, ok)

	run, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r1", run.ID)

	last, ok := s.LastRun()
	require.True(t, ok)
	assert.Equal(t, "r1", last.ID)
	assert.False(t, s.Running())
}

func TestScheduler_RejectsOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	runner := &mocks.RunnerMock{RunFunc: func(context.Context) (domain.Run, error) {
		close(started)
		<-release
		return domain.Run{ID: "slow", Status: domain.RunOK}, nil
	}}
	s := NewScheduler(runner, 0)

	require.NoError(t, s.Trigger())
	<-started
	assert.True(t, s.Running())

	_, err := s.RunOnce(context.Background())
	require.ErrorIs(t, err, ErrRunInProgress)
	require.ErrorIs(t, s.Trigger(), ErrRunInProgress)

	close(release)
	s.Stop()
	assert.False(t, s.Running())
	assert.Len(t, runner.RunCalls(), 1)
	last, ok := s.LastRun()
	require.True(t, ok)
	assert.Equal(t, "slow", last.ID)
}

func TestScheduler_Periodic(t *testing.T) {
	var count atomic.Int32
	runner := &mocks.RunnerMock{RunFunc: func(context.Context) (domain.Run, error) {
		count.Add(1)
		return domain.Run{Status: domain.RunOK}, nil
	}}
	s := NewScheduler(runner, 20*time.Millisecond)
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, count.Load(), "no runs after stop")
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	var gotCtx atomic.Value
	runner := &mocks.RunnerMock{RunFunc: func(ctx context.Context) (domain.Run, error) {
		gotCtx.Store(ctx)
		<-ctx.Done()
		return domain.Run{Status: domain.RunFailed}, ctx.Err()
	}}
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(runner, time.Hour)
	s.Start(ctx)

	assert.Eventually(t, s.Running, time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.NotNil(t, gotCtx.Load())
}
