package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/compression"
	"github.com/soltixdb/varindex/internal/config"
)

func TestNewQueue(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{Type: "MEMORY"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()
	_, ok := q.(*MemoryQueue)
	assert.True(t, ok)

	_, err = NewQueue(config.QueueConfig{Type: "rabbitmq"})
	assert.Error(t, err)

	_, err = NewQueue(config.QueueConfig{Type: "kafka"})
	assert.Error(t, err, "kafka without brokers")
}

func TestWithCompression(t *testing.T) {
	mem := NewMemoryQueue()
	defer func() { _ = mem.Close() }()

	none, err := compression.GetCompressor(compression.None)
	require.NoError(t, err)
	assert.Same(t, Queue(mem), WithCompression(mem, none))

	q := WithCompression(mem, compression.NewSnappyCompressor())

	payload := []byte(`{"star":"out00001","indices":{"I":0,"J":0,"K":0,"L":0,"J_clip":0,"L_clip":0}}`)
	require.NoError(t, q.Publish(context.Background(), testResults, payload))
	n, err := q.PublishBatch(context.Background(), []BatchMessage{{Subject: testResults, Data: payload}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	received := make(chan []byte, 2)
	require.NoError(t, q.Subscribe(testResults, func(data []byte) error {
		received <- data
		return nil
	}))

	for i := 0; i < 2; i++ {
		select {
		case got := <-received:
			assert.Equal(t, payload, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
}
