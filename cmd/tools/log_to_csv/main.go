package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/compression"
	"github.com/soltixdb/varindex/internal/output"
)

func main() {
	input := flag.String("input", "vast_lightcurve_statistics.log", "Index log to convert")
	algoName := flag.String("compression", "", "Index log compression: none, snappy (default: from the file extension)")
	outPath := flag.String("output", "", "Output CSV file (default: input with .csv extension)")
	sortBy := flag.String("sort", "", "Sort rows by this index, largest first (e.g. J, L, eta)")
	top := flag.Int("top", 0, "Keep only the first N rows (0 = all)")

	flag.Parse()

	algo := compression.None
	if *algoName != "" {
		var err error
		if algo, err = compression.ParseAlgorithm(*algoName); err != nil {
			log.Fatalf("Error: %v\n", err)
		}
	} else if strings.HasSuffix(*input, compression.Snappy.Extension()) {
		algo = compression.Snappy
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Error opening index log: %v\n", err)
	}
	rows, err := output.ReadLog(f, algo)
	_ = f.Close()
	if err != nil {
		log.Fatalf("Error reading index log: %v\n", err)
	}

	if len(rows) == 0 {
		log.Printf("Warning: No rows found\n")
		return
	}
	fmt.Printf("Found %d stars\n", len(rows))

	if *sortBy != "" {
		ix, err := variability.ParseIndex(*sortBy)
		if err != nil {
			log.Fatalf("Error: %v\n", err)
		}
		output.SortByIndex(rows, ix)
	}
	if *top > 0 && *top < len(rows) {
		rows = rows[:*top]
	}

	target := *outPath
	if target == "" {
		base := strings.TrimSuffix(*input, compression.Snappy.Extension())
		target = strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
	}

	if err := exportToCSV(target, rows); err != nil {
		log.Fatalf("Error exporting to CSV: %v\n", err)
	}
	fmt.Printf("Successfully exported to: %s\n", target)
}

// exportToCSV writes a header of column names and one record per star
func exportToCSV(path string, rows []output.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := append([]string{"star"}, variability.Columns()...)
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, r := range rows {
		record[0] = r.Star
		for i, v := range r.Values {
			record[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
