package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/storage/memory"
	"github.com/tally-lab/tally/internal/metrics"
	storagemocks "github.com/tally-lab/tally/internal/mocks/storage"
)

func testEntry(id string) *v1.QueueEntry {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &v1.QueueEntry{
		ID:        id,
		SiteID:    "s1",
		EventType: "page_view",
		Path:      "/",
		UserID:    "u1",
		Timestamp: now,
		CreatedAt: now,
	}
}

func TestDispatcher_WritesInBackground(t *testing.T) {
	store := memory.New()
	d := NewDispatcher(store, time.Second, 8)

	d.Dispatch(context.Background(), testEntry("a"))
	d.Dispatch(context.Background(), testEntry("b"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	status, err := store.QueueStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), status.Pending)
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	release := make(chan struct{})
	store.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ *v1.QueueEntry) error {
			<-release
			return nil
		}).
		Once()

	d := NewDispatcher(store, 5*time.Second, 8)

	returned := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), testEntry("slow"))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the store")
	}
	require.Equal(t, int64(1), d.InFlight())

	close(release)
	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, int64(0), d.InFlight())
}

func TestDispatcher_FailuresAreLoggedNotReturned(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	store.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).
		Once()

	before := testutil.ToFloat64(metrics.EnqueueFailures)

	d := NewDispatcher(store, time.Second, 8)
	d.Dispatch(context.Background(), testEntry("a"))
	require.NoError(t, d.Close(context.Background()))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.EnqueueFailures))
}

func TestDispatcher_DetachedFromRequestCancellation(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	store.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ *v1.QueueEntry) error {
			time.Sleep(20 * time.Millisecond)
			return ctx.Err()
		}).
		Once()

	before := testutil.ToFloat64(metrics.EnqueueFailures)

	d := NewDispatcher(store, time.Second, 8)
	reqCtx, cancel := context.WithCancel(context.Background())
	d.Dispatch(reqCtx, testEntry("a"))
	cancel()

	require.NoError(t, d.Close(context.Background()))
	require.Equal(t, before, testutil.ToFloat64(metrics.EnqueueFailures))
}

func TestDispatcher_TimeoutBoundsInsert(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	store.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ *v1.QueueEntry) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Once()

	before := testutil.ToFloat64(metrics.EnqueueFailures)

	d := NewDispatcher(store, 10*time.Millisecond, 8)
	d.Dispatch(context.Background(), testEntry("a"))
	require.NoError(t, d.Close(context.Background()))

	require.Equal(t, before+1, testutil.ToFloat64(metrics.EnqueueFailures))
}

func TestDispatcher_CloseHonoursDeadline(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	release := make(chan struct{})
	store.EXPECT().
		Enqueue(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ *v1.QueueEntry) error {
			<-release
			return nil
		}).
		Once()

	d := NewDispatcher(store, 5*time.Second, 8)
	d.Dispatch(context.Background(), testEntry("stuck"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(release)
	require.Eventually(t, func() bool { return d.InFlight() == 0 }, time.Second, 5*time.Millisecond)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	store := storagemocks.NewQueueStore(t)
	d := NewDispatcher(store, time.Second, 8)
	require.NoError(t, d.Close(context.Background()))

	before := testutil.ToFloat64(metrics.EnqueueFailures)
	d.Dispatch(context.Background(), testEntry("late"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.EnqueueFailures))
}
