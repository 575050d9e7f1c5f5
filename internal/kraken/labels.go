// internal/kraken/labels.go
package kraken

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a kraken-translate line without the expected
// <contig>\t<lineage> shape.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kraken labels: line %d: want <contig>\\t<lineage>, got %q", e.Line, e.Text)
}

// ReadLabels parses kraken-translate output into contig id → most
// specific classification (the last semicolon segment of the lineage).
// Duplicate contig ids keep the last occurrence.
func ReadLabels(r io.Reader) (map[string]string, error) {
	labels := make(map[string]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), " \t\r")
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return nil, &ParseError{Line: ln, Text: sc.Text()}
		}
		lineage := cols[1]
		labels[cols[0]] = lineage[strings.LastIndexByte(lineage, ';')+1:]
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("kraken labels scan: %w", err)
	}
	return labels, nil
}
