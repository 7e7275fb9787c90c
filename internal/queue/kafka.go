package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig represents Apache Kafka configuration
type KafkaConfig struct {
	Brokers       []string      // Kafka broker addresses
	GroupID       string        // Consumer group ID (default: "varindex-indexer")
	BatchSize     int           // Batch size for producer (default: 100)
	BatchTimeout  time.Duration // Batch timeout for producer (default: 10ms)
	RequiredAcks  int           // Required acks: 0=none, 1=leader, -1=all (default: 1)
	MaxRetries    int           // Max retries on failure (default: 3)
	RetryBackoff  time.Duration // Backoff between commit retries (default: 100ms)
	CommitRetries int           // Consumer commit retries (default: 3)
}

// KafkaQueue implements Queue using Apache Kafka. Subjects map to topics.
type KafkaQueue struct {
	config        KafkaConfig
	writers       map[string]*kafka.Writer
	readers       map[string]*kafka.Reader
	subscriptions map[string]context.CancelFunc
	mu            sync.Mutex
}

// newKafkaQueue validates the configuration; connections are opened lazily
func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	return &KafkaQueue{
		config:        kafkaDefaults(cfg),
		writers:       make(map[string]*kafka.Writer),
		readers:       make(map[string]*kafka.Reader),
		subscriptions: make(map[string]context.CancelFunc),
	}, nil
}

func kafkaDefaults(cfg KafkaConfig) KafkaConfig {
	if cfg.GroupID == "" {
		cfg.GroupID = "varindex-indexer"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.CommitRetries == 0 {
		cfg.CommitRetries = 3
	}
	return cfg
}

// writer returns the writer of topic, creating it on first use
func (q *KafkaQueue) writer(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, exists := q.writers[topic]; exists {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(q.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              q.config.BatchSize,
		BatchTimeout:           q.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:            q.config.MaxRetries,
		AllowAutoTopicCreation: true,
	}

	q.writers[topic] = w
	return w
}

// Publish writes one message to the subject's topic
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	msg := kafka.Message{Value: data, Time: time.Now()}
	if err := q.writer(subject).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", subject, err)
	}
	return nil
}

// PublishBatch writes the messages grouped by topic
func (q *KafkaQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	byTopic := make(map[string][]kafka.Message)
	now := time.Now()
	for _, msg := range messages {
		byTopic[msg.Subject] = append(byTopic[msg.Subject], kafka.Message{Value: msg.Data, Time: now})
	}

	successCount := 0
	var lastErr error
	for topic, msgs := range byTopic {
		if err := q.writer(topic).WriteMessages(ctx, msgs...); err != nil {
			lastErr = err
			continue
		}
		successCount += len(msgs)
	}

	if lastErr != nil {
		return successCount, fmt.Errorf("failed to publish batch: %w", lastErr)
	}
	return successCount, nil
}

// Subscribe consumes the subject's topic in the configured group
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  q.config.Brokers,
		GroupID:  q.config.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = reader
	q.subscriptions[subject] = cancel

	go q.consume(ctx, subject, reader, handler)
	return nil
}

// consume fetches, handles and commits messages until ctx is cancelled.
// A failed handler leaves the offset uncommitted.
func (q *KafkaQueue) consume(ctx context.Context, subject string, reader *kafka.Reader, handler MessageHandler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logHandlerError("kafka", subject, err)
			continue
		}

		if err := handler(msg.Value); err != nil {
			logHandlerError("kafka", subject, err)
			continue
		}

		for i := 0; i < q.config.CommitRetries; i++ {
			if err := reader.CommitMessages(ctx, msg); err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(q.config.RetryBackoff)
		}
	}
}

// Unsubscribe stops consuming a topic
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}

	cancel()
	if reader, ok := q.readers[subject]; ok {
		_ = reader.Close()
		delete(q.readers, subject)
	}
	delete(q.subscriptions, subject)
	return nil
}

// Close stops all consumers and flushes all writers
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for subject, cancel := range q.subscriptions {
		cancel()
		if reader, ok := q.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
		}
		delete(q.subscriptions, subject)
		delete(q.readers, subject)
	}

	for topic, w := range q.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}

	return lastErr
}
