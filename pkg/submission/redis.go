package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// DefaultQueueKey is the Redis list that receives registration envelopes.
const DefaultQueueKey = "onboarding:registrations"

// Envelope wraps a snapshot queued for a downstream onboarding worker.
type Envelope struct {
	ID          string         `json:"id"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Snapshot    model.Snapshot `json:"snapshot"`
}

// RedisConfig configures the Redis queue backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
	Channel  string `mapstructure:"channel"`
}

// RedisQueue hands snapshots to a worker through a Redis list. It is a
// transport; nothing is read back.
type RedisQueue struct {
	client  backend.UniversalClient
	key     string
	channel string
	now     func() time.Time
	newID   func() string
}

// RedisOption customises a RedisQueue.
type RedisOption func(*RedisQueue)

// WithQueueKey sets the list key.
func WithQueueKey(key string) RedisOption {
	return func(q *RedisQueue) {
		if key != "" {
			q.key = key
		}
	}
}

// WithNotifyChannel publishes each envelope ID on channel after it is queued.
func WithNotifyChannel(channel string) RedisOption {
	return func(q *RedisQueue) {
		q.channel = channel
	}
}

// WithClock overrides the envelope timestamp source.
func WithClock(now func() time.Time) RedisOption {
	return func(q *RedisQueue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithIDGenerator overrides the envelope ID source.
func WithIDGenerator(newID func() string) RedisOption {
	return func(q *RedisQueue) {
		if newID != nil {
			q.newID = newID
		}
	}
}

// NewRedisQueue wraps an existing client.
func NewRedisQueue(client backend.UniversalClient, opts ...RedisOption) *RedisQueue {
	q := &RedisQueue{
		client: client,
		key:    DefaultQueueKey,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// NewRedisQueueFromConfig dials a client from cfg.
func NewRedisQueueFromConfig(cfg RedisConfig) *RedisQueue {
	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisQueue(client, WithQueueKey(cfg.Key), WithNotifyChannel(cfg.Channel))
}

// Submit pushes the envelope onto the list and optionally announces it.
func (q *RedisQueue) Submit(ctx context.Context, snapshot model.Snapshot) error {
	envelope := Envelope{
		ID:          q.newID(),
		SubmittedAt: q.now().UTC(),
		Snapshot:    snapshot,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("submission: encode envelope: %w", err)
	}

	if q.channel == "" {
		if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
			return fmt.Errorf("submission: enqueue registration: %w", err)
		}
		return nil
	}

	pipe := q.client.TxPipeline()
	pipe.RPush(ctx, q.key, data)
	pipe.Publish(ctx, q.channel, envelope.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("submission: enqueue registration: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
