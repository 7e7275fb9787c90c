package compression

import (
	"fmt"
	"io"
	"strings"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// String returns the configuration name of the algorithm
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	default:
		return None, fmt.Errorf("unsupported compression algorithm: %s", name)
	}
}

// Extension returns the file suffix conventionally used for the algorithm
func (a Algorithm) Extension() string {
	if a == Snappy {
		return ".sz"
	}
	return ""
}

// Compressor compresses whole messages, e.g. queue payloads
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NoneCompressor is a no-op compressor
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Algorithm() Algorithm {
	return None
}

// NewWriter wraps w in a streaming compressor. Closing the returned writer
// flushes it but does not close w.
func NewWriter(w io.Writer, algo Algorithm) (io.WriteCloser, error) {
	switch algo {
	case None:
		return nopWriteCloser{w}, nil
	case Snappy:
		return newSnappyStreamWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NewReader wraps r in the streaming decompressor matching NewWriter
func NewReader(r io.Reader, algo Algorithm) (io.Reader, error) {
	switch algo {
	case None:
		return r, nil
	case Snappy:
		return newSnappyStreamReader(r), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
