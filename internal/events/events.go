// Package events publishes sale lifecycle notifications to downstream
// consumers (kitchen displays, loyalty, BI). Delivery is best-effort: the
// ledger and rollups are the source of truth, events only announce changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	TypeTransactionCompleted = "transaction.completed"
	TypeTransactionVoided    = "transaction.voided"
)

type Event struct {
	Type          string    `json:"type"`
	TransactionID uuid.UUID `json:"transaction_id"`
	CompanyID     int64     `json:"company_id"`
	BranchID      int64     `json:"branch_id"`
	BusinessDate  string    `json:"business_date"`
	TotalSales    int64     `json:"total_sales"`
	ItemsSold     int64     `json:"items_sold"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

const (
	DriverNone  = "none"
	DriverRedis = "redis"
	DriverKafka = "kafka"
)

type Config struct {
	Driver      string
	RedisStream string
	Brokers     []string
	Topic       string
}

// New picks the sink for cfg.Driver. rdb is only used by the redis driver.
func New(cfg Config, rdb *redis.Client) (Publisher, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis events driver needs a redis client")
		}

		return NewRedisStream(rdb, cfg.RedisStream), nil
	case DriverKafka:
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("kafka events driver needs brokers and a topic")
		}

		return NewKafka(cfg.Brokers, cfg.Topic), nil
	}

	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

type RedisStream struct {
	client *redis.Client
	stream string
}

func NewRedisStream(client *redis.Client, stream string) *RedisStream {
	return &RedisStream{client: client, stream: stream}
}

func (r *RedisStream) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"type":    e.Type,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("adding to stream %s: %w", r.stream, err)
	}

	return nil
}

// Close is a no-op; the redis client is owned by the caller.
func (r *RedisStream) Close() error { return nil }

type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, e Event) error {
	msg, err := Message(e)
	if err != nil {
		return err
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing kafka message: %w", err)
	}

	return nil
}

func (k *Kafka) Close() error { return k.writer.Close() }

// Message keys by transaction so every event for one sale lands on the same
// partition in order.
func Message(e Event) (kafka.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(e.TransactionID.String()),
		Value: payload,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}
