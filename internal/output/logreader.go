package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/compression"
)

// Row is one parsed index log row
type Row struct {
	Star   string
	Values []float64
}

// Value returns the value of one index
func (r Row) Value(ix variability.Index) float64 {
	return r.Values[ix]
}

// ReadLog parses a whole index log written with algo
func ReadLog(r io.Reader, algo compression.Algorithm) ([]Row, error) {
	src, err := compression.NewReader(r, algo)
	if err != nil {
		return nil, err
	}

	var rows []Row
	sc := bufio.NewScanner(src)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		star, values, err := ParseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, Row{Star: star, Values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index log: %w", err)
	}
	return rows, nil
}

// SortByIndex orders rows by descending value of ix, ties by star name
func SortByIndex(rows []Row, ix variability.Index) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := rows[i].Value(ix), rows[j].Value(ix)
		if vi != vj {
			return vi > vj
		}
		return rows[i].Star < rows[j].Star
	})
}
