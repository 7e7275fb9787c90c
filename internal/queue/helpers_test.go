package queue

import "github.com/nats-io/nats.go"

// Test-only constructors; production code goes through NewQueue.

func NewNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	return newNATSQueueWithConn(conn)
}

func NewMemoryQueue() *MemoryQueue {
	return newMemoryQueue()
}
