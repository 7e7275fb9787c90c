package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const natsStreamPrefix = "varindex-"

// NATSConfig represents NATS JetStream configuration
type NATSConfig struct {
	URL      string
	Username string // Optional authentication
	Password string // Optional authentication
}

// NATSQueue implements Queue using NATS JetStream
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	mu            sync.Mutex
}

// newNATSQueue connects to NATS and enables JetStream
func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	opts := []nats.Option{nats.Name("varindex")}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

// newNATSQueueWithConn wraps an existing connection
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// ensureStream creates the stream backing subject if it does not exist yet
func (q *NATSQueue) ensureStream(subject string) error {
	name := natsStreamPrefix + sanitizeName(subject)
	if _, err := q.js.StreamInfo(name); err == nil {
		return nil
	}
	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
	}
	return nil
}

// Publish publishes a message and waits for the JetStream acknowledgement
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues every message asynchronously and waits once for all
// acknowledgements.
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	ensured := make(map[string]bool)
	futures := make([]nats.PubAckFuture, 0, len(messages))
	for _, msg := range messages {
		if !ensured[msg.Subject] {
			if err := q.ensureStream(msg.Subject); err != nil {
				return 0, err
			}
			ensured[msg.Subject] = true
		}
		future, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			continue
		}
		futures = append(futures, future)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout waiting for batch publish: %w", ctx.Err())
	}

	successCount := 0
	for _, future := range futures {
		select {
		case <-future.Ok():
			successCount++
		case <-future.Err():
		}
	}

	if successCount < len(messages) {
		return successCount, fmt.Errorf("published %d of %d messages", successCount, len(messages))
	}
	return successCount, nil
}

// Subscribe attaches a durable JetStream consumer to subject. Messages are
// acknowledged after the handler succeeds; failures are redelivered up to
// three times.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	if err := q.ensureStream(subject); err != nil {
		return err
	}

	durableName := "indexer-" + sanitizeName(subject)
	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			logHandlerError("nats", subject, err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durableName),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe unsubscribes from a subject
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}

	delete(q.subscriptions, subject)
	return nil
}

// Close drains subscriptions and closes the connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		_ = sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}

	q.conn.Close()
	return nil
}

// sanitizeName maps a subject to a valid stream or consumer name.
// Names may only contain A-Z, a-z, 0-9, dash and underscore.
func sanitizeName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
