// Package events publishes domain events about products and transactions.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/kasir/internal/logger"
)

type Type string

const (
	ProductCreated      Type = "product.created"
	ProductUpdated      Type = "product.updated"
	ProductDeleted      Type = "product.deleted"
	TransactionRecorded Type = "transaction.recorded"
	TransactionApproved Type = "transaction.approved"
)

type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// New builds an event with a fresh id. key groups events for ordering (the product id).
func New(typ Type, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emitter publishes without ever failing the caller.
type Emitter struct {
	pub Publisher
	log *logger.Logger
}

func NewEmitter(pub Publisher, log *logger.Logger) *Emitter {
	return &Emitter{pub: pub, log: log}
}

func (e *Emitter) Emit(ctx context.Context, typ Type, key string, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	ev, err := New(typ, key, payload)
	if err != nil {
		e.log.Error().Err(err).Str("event", string(typ)).Msg("failed to build event")
		return
	}
	if err := e.pub.Publish(ctx, ev); err != nil {
		e.log.Error().Err(err).Str("event", string(typ)).Str("key", key).Msg("failed to publish event")
	}
}

// LogPublisher writes events to the debug log; used when no broker is configured.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Debug().
		Str("event_id", e.ID).
		Str("event", string(e.Type)).
		Str("key", e.Key).
		RawJSON("payload", e.Payload).
		Msg("domain event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
