// Package lightcurve reads per-star lightcurve text files.
//
// A file holds one observation per line: Julian Date, magnitude and
// magnitude error, optionally followed by further columns (position,
// aperture, image name) which are ignored. Lines starting with '#' or '%'
// and blank lines are skipped.
package lightcurve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/soltixdb/varindex/internal/analytics"
)

// ErrNoObservations is returned when a file holds no usable row
var ErrNoObservations = errors.New("no usable observations")

const maxLineBytes = 1 << 20

// Stats counts what happened to the lines of one file
type Stats struct {
	Lines    int `json:"lines"`
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`  // comments and blank lines
	Rejected int `json:"rejected"` // malformed or physically invalid rows
}

// Read parses a lightcurve from r. Invalid rows are counted in Stats and
// dropped; only an I/O error or an empty result is fatal.
func Read(r io.Reader, name string) (analytics.LightCurve, Stats, error) {
	lc := analytics.LightCurve{Name: name}
	var st Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		st.Lines++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			st.Skipped++
			continue
		}

		obs, ok := parseRow(line)
		if !ok {
			st.Rejected++
			continue
		}
		lc.JD = append(lc.JD, obs.JD)
		lc.Mag = append(lc.Mag, obs.Mag)
		lc.MagErr = append(lc.MagErr, obs.MagErr)
		st.Accepted++
	}
	if err := sc.Err(); err != nil {
		return lc, st, fmt.Errorf("read %s: %w", name, err)
	}
	if st.Accepted == 0 {
		return lc, st, fmt.Errorf("%s: %w", name, ErrNoObservations)
	}
	return lc, st, nil
}

// parseRow reads the first three fields of a row
func parseRow(line string) (analytics.Observation, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return analytics.Observation{}, false
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return analytics.Observation{}, false
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return analytics.Observation{}, false
	}
	return analytics.Observation{JD: vals[0], Mag: vals[1], MagErr: vals[2]}, true
}

// ReadFile reads the lightcurve stored at path. The star is named after
// the file without its extension.
func ReadFile(path string) (analytics.LightCurve, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return analytics.LightCurve{}, Stats{}, fmt.Errorf("open lightcurve: %w", err)
	}
	defer f.Close()

	return Read(f, StarName(path))
}

// StarName derives the star name from a lightcurve path
func StarName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Expand resolves glob patterns and directories into a sorted, de-duplicated
// list of files. Directories contribute their *.dat files.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(pattern, "*.dat"))
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no lightcurve matches %q", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(out)
	return out, nil
}
