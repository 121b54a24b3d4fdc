package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New())}
}

type testHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.types }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		sales := &testHandler{types: []string{"SaleCompleted"}}
		other := &testHandler{types: []string{"TransferCreated"}}
		bus.Subscribe(sales)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(ctx, newTestEvent("SaleCompleted")))

		assert.Equal(t, 1, sales.count())
		assert.Equal(t, 0, other.count())
	})

	t.Run("wildcard receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &testHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("A"), newTestEvent("B")))
		assert.Equal(t, 2, all.count())
	})

	t.Run("handler errors and panics do not reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(&testHandler{err: errors.New("fail")}, "X")
		bus.Subscribe(&testHandler{panics: true}, "X")
		after := &testHandler{}
		bus.Subscribe(after, "X")

		assert.NoError(t, bus.Publish(ctx, newTestEvent("X")))
		assert.Equal(t, 1, after.count())
	})

	t.Run("stopped bus rejects events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Stop(ctx))
		assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("X")), ErrBusStopped)

		require.NoError(t, bus.Start(ctx))
		assert.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	})
}

func TestInMemoryEventBus_AsyncStopWaits(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	h := &testHandler{}
	bus.Subscribe(h)

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("X")))
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Equal(t, 10, h.count())
}

func TestInMemoryEventBus_StopDuringPublish(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	h := &testHandler{}
	bus.Subscribe(h)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 50; j++ {
				err := bus.Publish(ctx, newTestEvent("X"))
				if errors.Is(err, ErrBusStopped) {
					return
				}
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}

	close(start)
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))
	handledAtStop := h.count()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, accepted, handledAtStop)
	assert.Equal(t, accepted, h.count())
}
