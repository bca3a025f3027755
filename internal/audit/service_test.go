package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-api.git/internal/kafka"
)

type fakeMovementStore struct {
	recorded []inventory.StockMovement
}

func (f *fakeMovementStore) RecordMovement(_ context.Context, m *inventory.StockMovement) error {
	f.recorded = append(f.recorded, *m)
	return nil
}

type fakeDedup struct{ seen map[string]bool }

func (f *fakeDedup) Seen(_ context.Context, id string) (bool, error) { return f.seen[id], nil }
func (f *fakeDedup) Mark(_ context.Context, id string) error {
	f.seen[id] = true
	return nil
}

func newService() (*Service, *fakeMovementStore) {
	store := &fakeMovementStore{}
	return &Service{
		Store:       store,
		Dedup:       &fakeDedup{seen: map[string]bool{}},
		ServiceName: "test-audit",
	}, store
}

func message(eventType string, payload any) kafkago.Message {
	env := inventory.Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test-api",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderCreated(t *testing.T) {
	svc, store := newService()

	m := message(inventory.EventOrderCreated, inventory.OrderEventPayload{
		OrderID:   "o1",
		ProductID: "p1",
		Quantity:  4,
		Status:    inventory.StatusPending,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), m))

	require.Len(t, store.recorded, 1)
	mv := store.recorded[0]
	assert.Equal(t, "p1", mv.ProductID)
	assert.Equal(t, "o1", mv.OrderID)
	assert.Equal(t, inventory.EventOrderCreated, mv.EventType)
	assert.Equal(t, 4, mv.Quantity)
}

func TestHandleOrderDeletedRecordsRelease(t *testing.T) {
	svc, store := newService()

	m := message(inventory.EventOrderDeleted, inventory.OrderEventPayload{
		OrderID: "o1", ProductID: "p1", Quantity: 4,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), m))

	require.Len(t, store.recorded, 1)
	assert.Equal(t, -4, store.recorded[0].Quantity)
}

func TestHandleStockRejected(t *testing.T) {
	svc, store := newService()

	m := message(inventory.EventStockRejected, inventory.StockRejectedPayload{
		ProductID: "p1", Requested: 7, Available: 6,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), m))

	require.Len(t, store.recorded, 1)
	assert.Equal(t, inventory.EventStockRejected, store.recorded[0].EventType)
	assert.Equal(t, 7, store.recorded[0].Quantity)
	assert.Empty(t, store.recorded[0].OrderID)
}

func TestHandleDuplicateEventIsNoop(t *testing.T) {
	svc, store := newService()

	m := message(inventory.EventOrderCreated, inventory.OrderEventPayload{
		OrderID: "o1", ProductID: "p1", Quantity: 4,
	})
	require.NoError(t, svc.HandleEvent(context.Background(), m))
	require.NoError(t, svc.HandleEvent(context.Background(), m))

	assert.Len(t, store.recorded, 1, "redelivery must not double-record")
}

func TestHandleUnknownEventIgnored(t *testing.T) {
	svc, store := newService()

	m := message("PaymentAuthorized", map[string]string{"order_id": "o1"})
	require.NoError(t, svc.HandleEvent(context.Background(), m))
	assert.Empty(t, store.recorded)
}

func TestHandleMalformedEnvelope(t *testing.T) {
	svc, store := newService()

	err := svc.HandleEvent(context.Background(), kafkago.Message{Value: []byte("{not json")})
	assert.Error(t, err, "bad envelope must not be committed")
	assert.Empty(t, store.recorded)
}
