//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	"github.com/couchcryptid/aqi-dashboard/internal/config"
	"github.com/couchcryptid/aqi-dashboard/internal/dashboard"
	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/couchcryptid/aqi-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testInteractionTopic = "test-interactions"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	kc, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("aqi-dashboard-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = kc.Terminate(context.Background()) })

	brokers, err := kc.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func loadDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(dataset.Paths{
		Summary:         "../dataset/testdata/by_county_epa_df.csv",
		Events:          "../dataset/testdata/epa_df_counties.csv",
		Classifications: "../dataset/testdata/aqi_table_classifications.csv",
	})
	require.NoError(t, err)
	return ds
}

// TestSessionChangesArePublished drives a session through the dashboard and
// reads the resulting selection events back from Kafka.
func TestSessionChangesArePublished(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testInteractionTopic)

	cfg := &config.Config{
		KafkaBrokers:          []string{broker},
		KafkaInteractionTopic: testInteractionTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	env := dashboard.Env{
		Data:       loadDataset(t),
		Figures:    chart.NewBuilder(nil),
		Metrics:    observability.NewMetricsForTesting(),
		Nationwide: true,
	}
	graph := dashboard.NewDefaultGraph(env, discardLogger())
	store := dashboard.NewSessionStore(graph, writer, dashboard.StoreConfig{TTL: time.Minute, BaselineYear: 2010, PublishTimeout: 10 * time.Second}, discardLogger())

	session, _ := store.Create()
	changes := []dashboard.Change{
		{Field: domain.FieldState, Value: "CA"},
		{Field: domain.FieldCounty, Value: "Fresno"},
		{Field: domain.FieldPollutant, Value: "PM"},
	}
	for _, c := range changes {
		_, out, err := session.Apply(ctx, c)
		require.NoError(t, err)
		assert.Empty(t, out.Errors())
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testInteractionTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	for i, want := range changes {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read event %d", i)

		var ev domain.SelectionEvent
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		assert.Equal(t, session.ID(), string(msg.Key))
		assert.Equal(t, session.ID(), ev.SessionID)
		assert.Equal(t, want.Field, ev.Field)
		assert.Equal(t, want.Value, ev.Value)

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, string(want.Field), headers["field"])
		assert.NotEmpty(t, headers["occurred_at"])
	}
}
