// internal/kraken/unclassified.go
package kraken

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadUnclassified collects contig ids from a FASTA of contigs kraken
// left unclassified. Only '>' header lines contribute; the id is the
// first whitespace-delimited token with the marker stripped. Sequence
// lines are skipped without being inspected.
func ReadUnclassified(r io.Reader) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		id := line[1:]
		if i := strings.IndexAny(id, " \t"); i >= 0 {
			id = id[:i]
		}
		set[id] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unclassified scan: %w", err)
	}
	return set, nil
}
