package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/compression"
)

// StdoutPath selects standard output as the index log
const StdoutPath = "-"

// LogWriter writes the index log: one row per star, the star name followed
// by every index column in %+.6e.
type LogWriter struct {
	mu     sync.Mutex
	file   io.Closer // nil for stdout
	stream io.WriteCloser
	buf    *bufio.Writer
	rows   int
}

// NewLogWriter creates (truncates) the log at path
func NewLogWriter(path string, algo compression.Algorithm) (*LogWriter, error) {
	if path == StdoutPath {
		return newLogWriter(os.Stdout, nil, algo)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create index log: %w", err)
	}
	lw, err := newLogWriter(f, f, algo)
	if err != nil {
		f.Close()
		return nil, err
	}
	return lw, nil
}

// NewLogWriterTo writes the log to w, which is not closed by Close
func NewLogWriterTo(w io.Writer, algo compression.Algorithm) (*LogWriter, error) {
	return newLogWriter(w, nil, algo)
}

func newLogWriter(w io.Writer, file io.Closer, algo compression.Algorithm) (*LogWriter, error) {
	stream, err := compression.NewWriter(w, algo)
	if err != nil {
		return nil, err
	}
	return &LogWriter{
		file:   file,
		stream: stream,
		buf:    bufio.NewWriter(stream),
	}, nil
}

// Write appends the row of one star
func (lw *LogWriter) Write(_ context.Context, star string, set variability.IndexSet) error {
	line := FormatRow(star, set)

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, err := lw.buf.WriteString(line); err != nil {
		return fmt.Errorf("failed to write index log row: %w", err)
	}
	lw.rows++
	return nil
}

// Rows returns the number of rows written so far
func (lw *LogWriter) Rows() int {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.rows
}

// Close flushes the log and closes the underlying file
func (lw *LogWriter) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if err := lw.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush index log: %w", err)
	}
	if err := lw.stream.Close(); err != nil {
		return fmt.Errorf("failed to close index log stream: %w", err)
	}
	if lw.file != nil {
		return lw.file.Close()
	}
	return nil
}

// UnnamedStar stands in for an empty star name in the index log
const UnnamedStar = "unnamed"

// FormatRow renders one log row including the trailing newline. Whitespace
// inside the star name is replaced so the row stays splittable.
func FormatRow(star string, set variability.IndexSet) string {
	name := strings.Join(strings.Fields(star), "_")
	if name == "" {
		name = UnnamedStar
	}

	var sb strings.Builder
	sb.WriteString(name)
	for _, v := range set.Values() {
		sb.WriteByte(' ')
		sb.WriteString(fmt.Sprintf("%+.6e", v))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ParseRow splits a log row into the star name and its index values
func ParseRow(line string) (string, []float64, error) {
	fields := strings.Fields(line)
	if len(fields) != variability.NumIndices+1 {
		return "", nil, fmt.Errorf("expected %d fields, got %d", variability.NumIndices+1, len(fields))
	}

	values := make([]float64, variability.NumIndices)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", variability.Index(i), err)
		}
		values[i] = v
	}
	return fields[0], values, nil
}
