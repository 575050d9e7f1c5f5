// internal/output/summary.go
package output

import (
	"fmt"
	"io"

	"primerspec/internal/correlate"
)

// SummaryHeader is the header row for the per-unit secondary view.
const SummaryHeader = "ref_id\tno_hits\tunique_hits\tmulti_hits\ttarget_contigs\tother_contigs\tunclassified_contigs"

// Summary is the optional per-unit view: hit classification counts plus
// the target/other/unclassified contig partition.
type Summary struct {
	RefID string
	Hits  correlate.Hits
	Parts correlate.Partition
}

// WriteSummary prints one TSV line per batch unit.
func WriteSummary(w io.Writer, list []Summary) error {
	if _, err := fmt.Fprintln(w, SummaryHeader); err != nil {
		return err
	}
	for _, s := range list {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			s.RefID,
			len(s.Hits.NoHits), len(s.Hits.UniqueHits), len(s.Hits.MultiHits),
			len(s.Parts.Target), len(s.Parts.Other), len(s.Parts.Unclassified),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
