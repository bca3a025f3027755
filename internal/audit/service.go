package audit

import (
	"context"
	"encoding/json"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-api.git/internal/kafka"
)

type MovementStore interface {
	RecordMovement(ctx context.Context, m *inventory.StockMovement) error
}

type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// Service turns order/stock events into stock_movements rows. It never
// touches product totals: the trail is bookkeeping, not stock mutation.
type Service struct {
	Store       MovementStore
	Dedup       Deduper
	ServiceName string
}

// HandleEvent is the consumer handler for every audit topic.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	if seen, _ := s.Dedup.Seen(ctx, env.EventID); seen {
		return nil
	}

	mv, ok, err := s.movementFor(env)
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("%s: ignoring event type %s", s.ServiceName, env.EventType)
		return nil
	}

	if err := s.Store.RecordMovement(ctx, mv); err != nil {
		return err
	}
	return s.Dedup.Mark(ctx, env.EventID)
}

// movementFor maps one envelope to a movement row. Deleted orders record a
// negative quantity (the reservation is released), rejections record the
// amount that was asked for.
func (s *Service) movementFor(env inventory.Envelope) (*inventory.StockMovement, bool, error) {
	switch env.EventType {
	case inventory.EventOrderCreated, inventory.EventOrderUpdated, inventory.EventOrderDeleted:
		p, err := kafkax.UnwrapPayload[inventory.OrderEventPayload](env.Payload)
		if err != nil {
			return nil, false, err
		}
		qty := p.Quantity
		if env.EventType == inventory.EventOrderDeleted {
			qty = -qty
		}
		return &inventory.StockMovement{
			ProductID:  p.ProductID,
			OrderID:    p.OrderID,
			EventType:  env.EventType,
			Quantity:   qty,
			RecordedAt: env.OccurredAt,
		}, true, nil

	case inventory.EventStockRejected:
		p, err := kafkax.UnwrapPayload[inventory.StockRejectedPayload](env.Payload)
		if err != nil {
			return nil, false, err
		}
		return &inventory.StockMovement{
			ProductID:  p.ProductID,
			EventType:  env.EventType,
			Quantity:   p.Requested,
			RecordedAt: env.OccurredAt,
		}, true, nil
	}
	return nil, false, nil
}
