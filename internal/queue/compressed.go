package queue

import (
	"context"
	"fmt"

	"github.com/soltixdb/varindex/internal/compression"
)

// compressedQueue compresses payloads on publish and decompresses them
// before they reach a handler. Both ends of a subject must agree on the
// algorithm.
type compressedQueue struct {
	Queue
	c compression.Compressor
}

// WithCompression wraps q so that every payload goes through c.
// With compression.None it returns q unchanged.
func WithCompression(q Queue, c compression.Compressor) Queue {
	if c == nil || c.Algorithm() == compression.None {
		return q
	}
	return &compressedQueue{Queue: q, c: c}
}

func (q *compressedQueue) Publish(ctx context.Context, subject string, data []byte) error {
	packed, err := q.c.Compress(data)
	if err != nil {
		return fmt.Errorf("compress message for %s: %w", subject, err)
	}
	return q.Queue.Publish(ctx, subject, packed)
}

func (q *compressedQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	packed := make([]BatchMessage, len(messages))
	for i, msg := range messages {
		data, err := q.c.Compress(msg.Data)
		if err != nil {
			return 0, fmt.Errorf("compress message for %s: %w", msg.Subject, err)
		}
		packed[i] = BatchMessage{Subject: msg.Subject, Data: data}
	}
	return q.Queue.PublishBatch(ctx, packed)
}

func (q *compressedQueue) Subscribe(subject string, handler MessageHandler) error {
	return q.Queue.Subscribe(subject, func(data []byte) error {
		raw, err := q.c.Decompress(data)
		if err != nil {
			return fmt.Errorf("decompress message on %s: %w", subject, err)
		}
		return handler(raw)
	})
}
