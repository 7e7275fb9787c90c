package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

// FormatLines describes the index log columns. Column 1 is the star name,
// the indices follow in log order.
func FormatLines() []string {
	lines := make([]string, 0, variability.NumIndices+1)
	lines = append(lines, fmt.Sprintf("%2d  star", 1))
	for i, name := range variability.Columns() {
		lines = append(lines, fmt.Sprintf("%2d  %s", i+2, name))
	}
	return lines
}

// WriteFormatFile writes the companion format file of the index log
func WriteFormatFile(path string) error {
	content := strings.Join(FormatLines(), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write format file: %w", err)
	}
	return nil
}
