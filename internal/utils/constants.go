package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultShutdownTimeout bounds graceful shutdown of the indexer service
	DefaultShutdownTimeout = 10 * time.Second

	// QueuePublishTimeout is the timeout for publishing one result message
	QueuePublishTimeout = 5 * time.Second
)

// =============================================================================
// Batch Size Constants
// =============================================================================

const (
	// MaxBatchLightCurves is the largest number of lightcurves accepted by one batch request
	MaxBatchLightCurves = 10000

	// DefaultBodyLimitMB is the default HTTP request body limit
	DefaultBodyLimitMB = 64
)

// =============================================================================
// Queue Constants
// =============================================================================

const (
	// DefaultJobsSubject carries lightcurve jobs for the indexer service
	DefaultJobsSubject = "varindex.jobs"

	// DefaultResultsSubject carries computed index sets
	DefaultResultsSubject = "varindex.results"
)

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
