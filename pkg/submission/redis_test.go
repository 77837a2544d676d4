package submission_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-onboarding/pkg/submission"
)

func TestRedisQueue_EnqueuesEnvelope(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	submittedAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("AEDT", 11*3600))
	queue := submission.NewRedisQueue(client,
		submission.WithQueueKey("test:registrations"),
		submission.WithClock(func() time.Time { return submittedAt }),
		submission.WithIDGenerator(func() string { return "reg-1" }),
	)

	snapshot := validSnapshot()
	require.NoError(t, queue.Submit(context.Background(), snapshot))

	items, err := mr.List("test:registrations")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var envelope submission.Envelope
	require.NoError(t, json.Unmarshal([]byte(items[0]), &envelope))
	assert.Equal(t, "reg-1", envelope.ID)
	assert.True(t, submittedAt.Equal(envelope.SubmittedAt))
	assert.Equal(t, snapshot, envelope.Snapshot)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(items[0]), &raw))
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw["snapshot"], &fields))
	assert.NotContains(t, fields, "confirmPassword")
	assert.Equal(t, "admin@acme.test", fields["emailAddress"])
}

func TestRedisQueue_PublishesNotification(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	ctx := context.Background()

	sub := client.Subscribe(ctx, "test:registered")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	queue := submission.NewRedisQueue(client,
		submission.WithNotifyChannel("test:registered"),
		submission.WithIDGenerator(func() string { return "reg-2" }),
	)
	require.NoError(t, queue.Submit(ctx, validSnapshot()))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "reg-2", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification")
	}

	items, err := mr.List(submission.DefaultQueueKey)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRedisQueue_ReportsConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	queue := submission.NewRedisQueue(client)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = queue.Submit(ctx, validSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submission: enqueue registration")
}
