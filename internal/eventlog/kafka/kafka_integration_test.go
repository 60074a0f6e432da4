//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"rollbook/internal/eventlog"
	"rollbook/internal/eventlog/kafka"
	"rollbook/pkg/testutil/containers"
)

func TestKafkaSinkDeliversEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	broker := containers.GetManager().GetRedpanda(t).Broker
	const topic = "rollbook.member.events.test"

	adminClient, err := kgo.NewClient(kgo.SeedBrokers(broker))
	require.NoError(t, err)
	defer adminClient.Close()

	admin := kadm.NewClient(adminClient)
	_, err = admin.CreateTopics(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	sink, err := kafka.NewSink([]string{broker}, kafka.WithTopic(topic))
	require.NoError(t, err)
	defer sink.Close()

	event, err := eventlog.New(eventlog.KindMemberRegistered, 7, map[string]string{
		"email": "alice@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, []byte(eventlog.KindMemberRegistered), records[0].Key)

	var delivered eventlog.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &delivered))
	require.Equal(t, event.ID, delivered.ID)
	require.Equal(t, eventlog.KindMemberRegistered, delivered.Kind)
	require.Equal(t, uint64(7), delivered.Height)

	var payload map[string]string
	require.NoError(t, delivered.Decode(&payload))
	require.Equal(t, "alice@example.com", payload["email"])
}

func TestKafkaSinkFailsClosedWhenTopicUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// No broker listens here; the produce must surface the failure.
	client, err := kgo.NewClient(
		kgo.SeedBrokers("127.0.0.1:1"),
		kgo.RecordDeliveryTimeout(2*time.Second),
	)
	require.NoError(t, err)
	sink := kafka.NewSinkWithClient(client)
	defer client.Close()

	event, err := eventlog.New(eventlog.KindKycSubmitted, 1, map[string]string{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.Error(t, sink.Append(ctx, event))
}
