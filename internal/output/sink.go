// Package output writes computed index sets to their destinations: the
// flat index log with its companion format file, a SQLite table and the
// results subject of a queue.
package output

import (
	"context"
	"errors"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

// Sink receives one index set per star
type Sink interface {
	Write(ctx context.Context, star string, set variability.IndexSet) error
	Close() error
}

// MultiSink fans every row out to all of its sinks
type MultiSink []Sink

// Write writes to every sink and joins their errors
func (m MultiSink) Write(ctx context.Context, star string, set variability.IndexSet) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, star, set); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins their errors
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
