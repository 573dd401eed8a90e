package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/events"
)

func TestNew(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()

	tests := []struct {
		name    string
		cfg     events.Config
		rdb     *redis.Client
		want    any
		wantErr bool
	}{
		{name: "DefaultIsNop", cfg: events.Config{}, want: events.Nop{}},
		{name: "Redis", cfg: events.Config{Driver: events.DriverRedis, RedisStream: "s"}, rdb: rdb, want: &events.RedisStream{}},
		{name: "RedisWithoutClient", cfg: events.Config{Driver: events.DriverRedis}, wantErr: true},
		{name: "Kafka", cfg: events.Config{Driver: events.DriverKafka, Brokers: []string{"k:9092"}, Topic: "t"}, want: &events.Kafka{}},
		{name: "KafkaWithoutTopic", cfg: events.Config{Driver: events.DriverKafka, Brokers: []string{"k:9092"}}, wantErr: true},
		{name: "Unknown", cfg: events.Config{Driver: "sqs"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := events.New(tt.cfg, tt.rdb)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.NoError(t, p.Close())
		})
	}
}

func TestNop_Publish(t *testing.T) {
	assert.NoError(t, events.Nop{}.Publish(context.Background(), events.Event{}))
}

func TestMessage(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)

	msg, err := events.Message(events.Event{
		Type:          events.TypeTransactionCompleted,
		TransactionID: id,
		CompanyID:     1,
		BranchID:      1,
		BusinessDate:  "2024-01-01",
		TotalSales:    70000,
		ItemsSold:     3,
		OccurredAt:    at,
	})
	require.NoError(t, err)

	assert.Equal(t, id.String(), string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, events.TypeTransactionCompleted, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "2024-01-01", decoded["business_date"])
	assert.EqualValues(t, 70000, decoded["total_sales"])
}
