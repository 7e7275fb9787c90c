package compression

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// SnappyCompressor implements Compressor using Snappy block format
type SnappyCompressor struct{}

// NewSnappyCompressor creates a new Snappy compressor
func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

// Compress compresses data using Snappy
func (s *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy compressed data
func (s *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}

	return decompressed, nil
}

// Algorithm returns Snappy
func (s *SnappyCompressor) Algorithm() Algorithm {
	return Snappy
}

// newSnappyStreamWriter uses the snappy framing format, so the index log
// can be decompressed by any framed-snappy tool.
func newSnappyStreamWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}

func newSnappyStreamReader(r io.Reader) io.Reader {
	return snappy.NewReader(r)
}
