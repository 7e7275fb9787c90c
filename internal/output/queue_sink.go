package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/queue"
	"github.com/soltixdb/varindex/internal/utils"
)

// QueueSink publishes every record as JSON on a results subject
type QueueSink struct {
	publisher queue.Publisher
	subject   string
}

// NewQueueSink creates a sink on an existing publisher. The publisher is
// owned by the caller and is not closed by Close.
func NewQueueSink(publisher queue.Publisher, subject string) *QueueSink {
	return &QueueSink{publisher: publisher, subject: subject}
}

// Write publishes the record of one star
func (q *QueueSink) Write(ctx context.Context, star string, set variability.IndexSet) error {
	data, err := json.Marshal(set.Record(star))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, utils.QueuePublishTimeout)
	defer cancel()

	if err := q.publisher.Publish(ctx, q.subject, data); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", star, q.subject, err)
	}
	return nil
}

// Close is a no-op
func (q *QueueSink) Close() error {
	return nil
}
