package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/trainerhub/backend/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(Initial())
	t.Cleanup(s.Close)
	return s
}

func TestDispatchAppliesInOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.Dispatch(ctx,
		SetClientsLoading{Loading: true},
		SetClients{Clients: []models.Client{{ID: "1", Status: models.ClientActive}}},
		AddClient{Client: models.Client{ID: "2"}},
	)
	require.NoError(t, err)

	assert.False(t, got.ClientsLoading)
	assert.Equal(t, 2, got.Stats.TotalClients)
	assert.Equal(t, got, s.Snapshot())
}

func TestConcurrentDispatchIsSerialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Dispatch(ctx, AddClient{Client: models.Client{
				ID:     fmt.Sprint(i),
				Status: models.ClientActive,
			}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Clients, 50)
	assert.Equal(t, 50, snap.Stats.TotalClients)
	assert.Equal(t, 50, snap.Stats.ActiveClients)
}

func TestDispatchAfterClose(t *testing.T) {
	s := New(Initial())
	s.Close()
	s.Close()

	_, err := s.Dispatch(context.Background(), ClearError{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDispatchHonoursContextWhileWaiting(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the store may still accept the request; either outcome is valid but
	// the call must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Dispatch(ctx, ClearError{})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a cancelled context")
	}
}

func TestSubscribeReceivesLatest(t *testing.T) {
	s := newTestStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	ctx := context.Background()
	_, err := s.Dispatch(ctx, SetError{Message: "first"})
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, SetError{Message: "second"})
	require.NoError(t, err)

	select {
	case snap := <-ch:
		assert.Equal(t, "second", snap.Error)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	s := New(Initial())
	ch, cancel := s.Subscribe()

	s.Close()
	_, open := <-ch
	assert.False(t, open)

	cancel()

	late, lateCancel := s.Subscribe()
	_, open = <-late
	assert.False(t, open)
	lateCancel()
}
