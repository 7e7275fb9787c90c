package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"Snappy", Snappy, false},
		{"zstd", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "snappy", Snappy.String())
	assert.Equal(t, ".sz", Snappy.Extension())
	assert.Equal(t, "", None.Extension())
}

func TestNoneCompressor_CompressDecompress(t *testing.T) {
	compressor, err := GetCompressor(None)
	require.NoError(t, err)
	assert.Equal(t, None, compressor.Algorithm())

	original := []byte("No compression test data")
	compressed, err := compressor.Compress(original)
	require.NoError(t, err)
	assert.Equal(t, original, compressed)

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestGetCompressor_Unsupported(t *testing.T) {
	_, err := GetCompressor(Algorithm(99))
	assert.Error(t, err)

	_, err = NewWriter(io.Discard, Algorithm(99))
	assert.Error(t, err)

	_, err = NewReader(strings.NewReader(""), Algorithm(99))
	assert.Error(t, err)
}

func TestStream_RoundTrip(t *testing.T) {
	row := "out00001  +1.234560e+00 -5.000000e-01 +0.000000e+00\n"
	original := strings.Repeat(row, 500)

	for _, algo := range []Algorithm{None, Snappy} {
		t.Run(algo.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, algo)
			require.NoError(t, err)

			_, err = io.WriteString(w, original)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if algo == Snappy {
				assert.Less(t, buf.Len(), len(original))
			}

			r, err := NewReader(&buf, algo)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, original, string(got))
		})
	}
}
