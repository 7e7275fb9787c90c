package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/config"
)

// startTestNATS runs an embedded JetStream-enabled NATS server
func startTestNATS(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func newTestNATSQueue(t *testing.T) *NATSQueue {
	t.Helper()
	q, err := newNATSQueue(NATSConfig{URL: startTestNATS(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestNATSQueue_InvalidURL(t *testing.T) {
	_, err := newNATSQueue(NATSConfig{URL: "nats://127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNATSQueue_WithConn(t *testing.T) {
	conn, err := nats.Connect(startTestNATS(t))
	require.NoError(t, err)

	q, err := NewNATSQueueWithConn(conn)
	require.NoError(t, err)
	assert.NotNil(t, q.js)
	require.NoError(t, q.Close())
	assert.True(t, conn.IsClosed())
}

func TestNATSQueue_PublishSubscribe(t *testing.T) {
	q := newTestNATSQueue(t)

	received := make(chan string, 4)
	require.NoError(t, q.Subscribe(testResults, func(data []byte) error {
		received <- string(data)
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Publish(ctx, testResults, []byte(`{"star":"a"}`)))
	require.NoError(t, q.Publish(ctx, testResults, []byte(`{"star":"b"}`)))

	var got []string
	for len(got) < 2 {
		select {
		case s := <-received:
			got = append(got, s)
		case <-time.After(5 * time.Second):
			t.Fatalf("received only %v", got)
		}
	}
	assert.Equal(t, []string{`{"star":"a"}`, `{"star":"b"}`}, got)
}

func TestNATSQueue_PublishBeforeSubscribeIsRetained(t *testing.T) {
	q := newTestNATSQueue(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Publish(ctx, testJobs, []byte("job-1")))

	received := make(chan string, 1)
	require.NoError(t, q.Subscribe(testJobs, func(data []byte) error {
		received <- string(data)
		return nil
	}))

	select {
	case s := <-received:
		assert.Equal(t, "job-1", s)
	case <-time.After(5 * time.Second):
		t.Fatal("retained message not delivered")
	}
}

func TestNATSQueue_PublishBatch(t *testing.T) {
	q := newTestNATSQueue(t)

	var count int32
	done := make(chan struct{})
	require.NoError(t, q.Subscribe(testResults, func([]byte) error {
		if atomic.AddInt32(&count, 1) == 50 {
			close(done)
		}
		return nil
	}))

	msgs := make([]BatchMessage, 50)
	for i := range msgs {
		msgs[i] = BatchMessage{Subject: testResults, Data: []byte{byte(i)}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := q.PublishBatch(ctx, msgs)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("received %d of 50", atomic.LoadInt32(&count))
	}

	n, err = q.PublishBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNATSQueue_HandlerErrorRedelivers(t *testing.T) {
	q := newTestNATSQueue(t)

	var attempts int32
	done := make(chan struct{})
	require.NoError(t, q.Subscribe(testJobs, func([]byte) error {
		if atomic.AddInt32(&attempts, 1) == 2 {
			close(done)
			return nil
		}
		return errors.New("transient")
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Publish(ctx, testJobs, []byte("job")))

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("message was not redelivered")
	}
}

func TestNATSQueue_SubscribeUnsubscribe(t *testing.T) {
	q := newTestNATSQueue(t)

	noop := func([]byte) error { return nil }
	require.NoError(t, q.Subscribe(testJobs, noop))
	assert.Error(t, q.Subscribe(testJobs, noop))
	require.NoError(t, q.Unsubscribe(testJobs))
	assert.Error(t, q.Unsubscribe(testJobs))
}

func TestNewQueue_NATS(t *testing.T) {
	url := startTestNATS(t)
	q, err := NewQueue(config.QueueConfig{Type: "", URL: url})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	_, ok := q.(*NATSQueue)
	assert.True(t, ok)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "varindex_jobs", sanitizeName("varindex.jobs"))
	assert.Equal(t, "a_b-c_", sanitizeName("a*b-c>"))
}
