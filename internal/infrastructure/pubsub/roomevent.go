package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fixmysite/portal/internal/shared/logger"
)

const roomEventChannel = "portal:realtime:events"

// RoomEvent is one realtime publish relayed between instances. An empty Room
// means the event is global.
type RoomEvent struct {
	Room       string          `json:"room,omitempty"`
	Event      string          `json:"event"`
	Data       json.RawMessage `json:"data"`
	InstanceID string          `json:"instance_id"`
}

func (e RoomEvent) IsGlobal() bool {
	return e.Room == ""
}

// RedisRoomEventBus relays realtime events over Redis Pub/Sub so every
// instance can fan them out to its own connections.
type RedisRoomEventBus struct {
	client     *redis.Client
	logger     logger.Interface
	instanceID string
}

func NewRedisRoomEventBus(client *redis.Client, logger logger.Interface) *RedisRoomEventBus {
	return &RedisRoomEventBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisRoomEventBus) InstanceID() string {
	return b.instanceID
}

// Publish stamps the event with this instance's ID before sending it.
func (b *RedisRoomEventBus) Publish(ctx context.Context, event RoomEvent) error {
	event.InstanceID = b.instanceID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	if err := b.client.Publish(ctx, roomEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish room event",
			"room", event.Room,
			"event", event.Event,
			"error", err,
		)
		return fmt.Errorf("failed to publish room event: %w", err)
	}

	b.logger.Debugw("room event published to Redis",
		"room", event.Room,
		"event", event.Event,
	)
	return nil
}

// Subscribe blocks until ctx is done, delivering events from other
// instances to handler in arrival order. Events this instance published are
// skipped since they were already delivered locally.
func (b *RedisRoomEventBus) Subscribe(ctx context.Context, handler func(event RoomEvent)) error {
	return b.subscribeWithReconnect(ctx, roomEventChannel, func(payload string) {
		var event RoomEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal room event",
				"payload", payload,
				"error", err,
			)
			return
		}

		if event.InstanceID == b.instanceID {
			return
		}

		handler(event)
	})
}

func (b *RedisRoomEventBus) subscribeWithReconnect(ctx context.Context, channel string, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, channel, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("room event subscription disconnected, reconnecting",
			"channel", channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisRoomEventBus) subscribe(ctx context.Context, channel string, handler func(payload string)) error {
	pubsub := b.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	b.logger.Infow("subscribed to room event channel", "channel", channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("room event subscriber stopped",
				"channel", channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("room event channel closed", "channel", channel)
				return nil
			}
			// Handled inline so per-room ordering survives the relay.
			handler(msg.Payload)
		}
	}
}
