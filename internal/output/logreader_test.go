package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/compression"
)

func TestReadLog(t *testing.T) {
	for _, algo := range []compression.Algorithm{compression.None, compression.Snappy} {
		t.Run(algo.String(), func(t *testing.T) {
			var buf bytes.Buffer
			lw, err := NewLogWriterTo(&buf, algo)
			require.NoError(t, err)

			set := computeSet(t)
			require.NoError(t, lw.Write(context.Background(), "quiet", variability.EmptyIndexSet(2)))
			require.NoError(t, lw.Write(context.Background(), "variable", set))
			require.NoError(t, lw.Close())

			rows, err := ReadLog(&buf, algo)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "quiet", rows[0].Star)
			assert.InDelta(t, set.Value(variability.IndexChi2), rows[1].Value(variability.IndexChi2), 1e-5*set.Value(variability.IndexChi2))

			SortByIndex(rows, variability.IndexChi2)
			assert.Equal(t, "variable", rows[0].Star)
		})
	}
}

func TestReadLog_BadRow(t *testing.T) {
	_, err := ReadLog(strings.NewReader("star 1 2\n"), compression.None)
	assert.ErrorContains(t, err, "line 1")
}
