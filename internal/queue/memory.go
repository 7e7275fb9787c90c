package queue

import (
	"context"
	"fmt"
	"sync"
)

const memoryChannelCapacity = 10000

// MemoryQueue implements Queue using in-process channels. It is used by
// tests and by single-process deployments of the indexer service.
type MemoryQueue struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	closed        bool
	mu            sync.RWMutex
}

// newMemoryQueue creates a new in-memory queue instance
func newMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

// channel returns the channel of subject, creating it on first use
func (q *MemoryQueue) channel(subject string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, fmt.Errorf("memory queue closed")
	}
	if ch, exists := q.channels[subject]; exists {
		return ch, nil
	}

	ch := make(chan []byte, memoryChannelCapacity)
	q.channels[subject] = ch
	return ch, nil
}

// Publish publishes a copy of data to the subject's channel
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case ch <- dataCopy:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// PublishBatch publishes multiple messages, stopping at the first failure
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	for i, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			return i, err
		}
	}
	return len(messages), nil
}

// Subscribe starts a goroutine handing every message of subject to handler
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				if err := handler(data); err != nil {
					logHandlerError("memory", subject, err)
				}
			}
		}
	}()

	return nil
}

// Unsubscribe stops delivering messages of subject
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops all subscriptions and drops pending messages
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	// Wait for consumers before dropping their channels
	q.wg.Wait()

	q.mu.Lock()
	for subject := range q.channels {
		delete(q.channels, subject)
	}
	q.mu.Unlock()
	return nil
}

// PendingCount returns the number of undelivered messages for a subject
func (q *MemoryQueue) PendingCount(subject string) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if ch, exists := q.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
