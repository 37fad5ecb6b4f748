package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbooks/ledger/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, evt)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string { return h.types }

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{shared.NewBaseDomainEvent(eventType, "Test", uuid.New())}
}

func TestInMemoryEventBusPublish(t *testing.T) {
	t.Run("delivers to matching handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(context.Background()))

		posted := &recordingHandler{types: []string{"TransactionPosted"}}
		everything := &recordingHandler{}
		bus.Subscribe(posted)
		bus.Subscribe(everything)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("TransactionPosted")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("VoucherApproved")))

		assert.Len(t, posted.received, 1)
		assert.Len(t, everything.received, 2)
	})

	t.Run("rejects publish before start", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		err := bus.Publish(context.Background(), newTestEvent("TransactionPosted"))
		assert.Error(t, err)
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(context.Background()))

		failing := &recordingHandler{types: []string{"TransactionPosted"}, fail: assert.AnError}
		healthy := &recordingHandler{types: []string{"TransactionPosted"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("TransactionPosted")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(context.Background()))

		panicking := &recordingHandler{types: []string{"TransactionPosted"}, panics: true}
		healthy := &recordingHandler{types: []string{"TransactionPosted"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("TransactionPosted")))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(context.Background()))

		handler := &recordingHandler{types: []string{"TransactionPosted"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("TransactionPosted")))
		assert.Empty(t, handler.received)
	})
}

func TestAuditLogHandler(t *testing.T) {
	handler := NewAuditLogHandler(zap.NewNop())
	assert.Empty(t, handler.EventTypes())
	assert.NoError(t, handler.Handle(context.Background(), newTestEvent("InvoiceCreated")))
}
