package eventlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollbook/internal/eventlog"
	"rollbook/internal/eventlog/memory"
)

type payload struct {
	Value string `json:"value"`
}

func TestNewAndDecode(t *testing.T) {
	event, err := eventlog.New(eventlog.KindMemberRegistered, 7, payload{Value: "hello"})
	require.NoError(t, err)

	assert.NotEqual(t, event.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, eventlog.KindMemberRegistered, event.Kind)
	assert.Equal(t, uint64(7), event.Height)
	assert.False(t, event.RecordedAt.IsZero())

	var out payload
	require.NoError(t, event.Decode(&out))
	assert.Equal(t, "hello", out.Value)
}

func TestLogFanOut(t *testing.T) {
	first := memory.NewSink()
	second := memory.NewSink()
	log := eventlog.NewLog(first, second)

	event, err := eventlog.New(eventlog.KindMemberUpdated, 1, payload{Value: "x"})
	require.NoError(t, err)
	require.NoError(t, log.Append(context.Background(), event))

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

type brokenSink struct{}

func (brokenSink) Append(context.Context, eventlog.Event) error {
	return errors.New("broker down")
}

func TestLogFailsClosed(t *testing.T) {
	healthy := memory.NewSink()
	log := eventlog.NewLog(brokenSink{}, healthy)

	event, err := eventlog.New(eventlog.KindKycSubmitted, 1, payload{})
	require.NoError(t, err)

	err = log.Append(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "member.kyc_submitted")
	// Delivery stops at the first failing sink.
	assert.Equal(t, 0, healthy.Len())
}

func TestMemorySinkOrderAndFiltering(t *testing.T) {
	sink := memory.NewSink()
	ctx := context.Background()

	for i, kind := range []eventlog.Kind{
		eventlog.KindMemberRegistered,
		eventlog.KindMemberUpdated,
		eventlog.KindMemberRegistered,
	} {
		event, err := eventlog.New(kind, uint64(i+1), payload{})
		require.NoError(t, err)
		require.NoError(t, sink.Append(ctx, event))
	}

	all := sink.List()
	require.Len(t, all, 3)
	assert.Equal(t, uint64(1), all[0].Height)
	assert.Equal(t, uint64(3), all[2].Height)

	registered := sink.OfKind(eventlog.KindMemberRegistered)
	assert.Len(t, registered, 2)
	assert.Len(t, sink.OfKind(eventlog.KindKycStatusUpdated), 0)

	sink.Reset()
	assert.Equal(t, 0, sink.Len())
}
