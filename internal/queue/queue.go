// Package queue moves lightcurve jobs and computed index sets between
// processes. Every backend (NATS JetStream, Redis Streams, Kafka and an
// in-memory queue for tests) implements the same Publisher/Subscriber pair.
package queue

import (
	"context"

	"github.com/soltixdb/varindex/internal/logging"
)

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and waits for all to complete.
	// Returns the number of successfully published messages and any error
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	// Close closes the connection
	Close() error
}

// BatchMessage represents a message for batch publishing
type BatchMessage struct {
	Subject string
	Data    []byte
}

// Subscriber subscribes to messages from a queue
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with a handler
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles incoming messages. A returned error leaves the
// message unacknowledged so backends with redelivery retry it.
type MessageHandler func(data []byte) error

// Queue combines Publisher and Subscriber interfaces
type Queue interface {
	Publisher
	Subscriber
}

// logHandlerError reports a message a handler could not process
func logHandlerError(backend, subject string, err error) {
	kErr, vErr := logging.Err(err)
	logging.Warn("Queue message handler failed",
		"backend", backend,
		"subject", subject,
		kErr, vErr,
	)
}
