package pubsub

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/warehouseops/go-allocation/event"
	"github.com/warehouseops/go-allocation/serde"
)

// Envelope is the wire representation of a published Domain Event.
type Envelope struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Payload event.Event `json:"payload"`
}

// Interface implementation assertion.
var _ Publisher = &RedisPublisher{}

// RedisPublisher publishes Domain Events as JSON envelopes on Redis
// pub/sub channels.
type RedisPublisher struct {
	Client     redis.UniversalClient
	Serializer serde.Serializer[Envelope, []byte]

	// GenerateID is used to assign the envelope id.
	// Defaults to uuid.New when nil.
	GenerateID func() uuid.UUID
}

// NewRedisPublisher creates a RedisPublisher on the provided client,
// using the JSON envelope serializer.
func NewRedisPublisher(client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{
		Client:     client,
		Serializer: serde.NewJSONSerializer[Envelope](),
		GenerateID: uuid.New,
	}
}

// Publish implements pubsub.Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, evt event.Event) error {
	generateID := p.GenerateID
	if generateID == nil {
		generateID = uuid.New
	}

	data, err := p.Serializer.Serialize(Envelope{
		ID:      generateID(),
		Name:    evt.Name(),
		Payload: evt,
	})
	if err != nil {
		return fmt.Errorf("pubsub.RedisPublisher: failed to serialize event envelope, %w", err)
	}

	if err := p.Client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("pubsub.RedisPublisher: failed to publish on channel %q, %w", channel, err)
	}

	return nil
}
