package compression

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnappyCompressor_Algorithm(t *testing.T) {
	compressor := NewSnappyCompressor()
	assert.Equal(t, Snappy, compressor.Algorithm())
}

func TestSnappyCompressor_CompressDecompress(t *testing.T) {
	compressor := NewSnappyCompressor()

	payload, err := json.Marshal(map[string]interface{}{
		"star":    "out00042",
		"n":       412,
		"indices": map[string]float64{"J": 0.4125, "K": 0.79, "L": 0.31},
	})
	require.NoError(t, err)
	original := bytes.Repeat(payload, 20)

	compressed, err := compressor.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original))

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestSnappyCompressor_EmptyData(t *testing.T) {
	compressor := NewSnappyCompressor()

	compressed, err := compressor.Compress([]byte{})
	require.NoError(t, err)
	assert.Empty(t, compressed)

	decompressed, err := compressor.Decompress([]byte{})
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestSnappyCompressor_CorruptData(t *testing.T) {
	compressor := NewSnappyCompressor()

	_, err := compressor.Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0x01})
	assert.Error(t, err)
}
