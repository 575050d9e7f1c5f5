// internal/correlate/correlate.go
package correlate

import (
	"fmt"

	"primerspec/internal/primersearch"
)

// OrthogroupPending fills the Orthogroup column until orthogroup
// assignment lands.
const OrthogroupPending = "tbd"

// UnclassifiedLabel is the taxon emitted under PolicyLabel when a contig
// has no taxonomy entry.
const UnclassifiedLabel = "Unclassified"

// Policy controls what Rows does when an amplified contig is missing
// from the taxonomy mapping of its batch unit.
type Policy string

const (
	PolicyFail  Policy = "fail"  // abort the unit (default)
	PolicySkip  Policy = "skip"  // drop the row, report it
	PolicyLabel Policy = "label" // emit the row with UnclassifiedLabel
)

// ParsePolicy validates a policy name from flags or config.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyFail, PolicySkip, PolicyLabel:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown missing-taxon policy %q (expected fail|skip|label)", s)
}

// CorrelationError is a data-consistency mismatch between the two
// upstream tools: an amplification event references a contig the
// taxonomy mapping does not know.
type CorrelationError struct {
	PrimerID string
	ContigID string
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("primer %s: contig %s has no taxonomy label", e.PrimerID, e.ContigID)
}

// Row is one consolidated report record: a single amplification event
// joined to the taxonomy label of the contig it amplified.
type Row struct {
	PrimerID   string
	Hits       int
	RefID      string
	ContigID   string
	AmpLen     int
	Taxa       string
	FwdMM      int
	RevMM      int
	FwdStart   int
	RevStart   int
	FwdPrimer  string
	RevPrimer  string
	Orthogroup string
}

// Rows emits one Row per amplimer, primer pairs in report order and
// events in block order. refID identifies the batch unit. Contigs absent
// from labels are handled per policy; under PolicySkip the dropped
// lookups are returned so the caller can report them.
func Rows(refID string, rec *primersearch.Record, labels map[string]string, policy Policy) ([]Row, []*CorrelationError, error) {
	var (
		rows    []Row
		skipped []*CorrelationError
	)
	for _, name := range rec.Names {
		amps := rec.Amplifiers[name]
		for _, a := range amps {
			taxa, ok := labels[a.ContigID]
			if !ok {
				miss := &CorrelationError{PrimerID: name, ContigID: a.ContigID}
				switch policy {
				case PolicySkip:
					skipped = append(skipped, miss)
					continue
				case PolicyLabel:
					taxa = UnclassifiedLabel
				default:
					return nil, nil, miss
				}
			}
			rows = append(rows, Row{
				PrimerID:   name,
				Hits:       len(amps),
				RefID:      refID,
				ContigID:   a.ContigID,
				AmpLen:     a.AmpLen,
				Taxa:       taxa,
				FwdMM:      a.FwdMM,
				RevMM:      a.RevMM,
				FwdStart:   a.FwdStart,
				RevStart:   a.RevStart,
				FwdPrimer:  a.FwdPrimer,
				RevPrimer:  a.RevPrimer,
				Orthogroup: OrthogroupPending,
			})
		}
	}
	return rows, skipped, nil
}
