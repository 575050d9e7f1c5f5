// internal/correlate/classify.go
package correlate

import (
	"sort"
	"strings"

	"primerspec/internal/primersearch"
)

// Hits partitions primer-pair names by hit count. The three sets are
// disjoint and together cover every name in the record.
type Hits struct {
	NoHits     []string
	UniqueHits []string
	MultiHits  []string
}

// ClassifyHits buckets every primer pair by the length of its amplimer
// list, preserving report order within each bucket.
func ClassifyHits(rec *primersearch.Record) Hits {
	var h Hits
	for _, name := range rec.Names {
		switch n := len(rec.Amplifiers[name]); {
		case n == 0:
			h.NoHits = append(h.NoHits, name)
		case n == 1:
			h.UniqueHits = append(h.UniqueHits, name)
		default:
			h.MultiHits = append(h.MultiHits, name)
		}
	}
	return h
}

// Partition splits contigs into target-taxon matches, other classified
// contigs, and the pass-through unclassified set.
type Partition struct {
	Target       []string
	Other        []string
	Unclassified []string
}

// PartitionByTaxon assigns each labeled contig by substring match of the
// target taxon against its classification. Slices come back sorted so
// the view is stable across runs.
func PartitionByTaxon(labels map[string]string, unclassified map[string]struct{}, target string) Partition {
	var p Partition
	for contig, taxa := range labels {
		if strings.Contains(taxa, target) {
			p.Target = append(p.Target, contig)
		} else {
			p.Other = append(p.Other, contig)
		}
	}
	for contig := range unclassified {
		p.Unclassified = append(p.Unclassified, contig)
	}
	sort.Strings(p.Target)
	sort.Strings(p.Other)
	sort.Strings(p.Unclassified)
	return p
}
