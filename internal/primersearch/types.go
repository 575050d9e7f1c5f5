// internal/primersearch/types.go
package primersearch

// Amplimer is one predicted amplification product for a primer pair
// against a specific contig. Positions are 1-based as reported; the
// reverse start is the position on the strand as printed in the report.
type Amplimer struct {
	AmpLen    int
	ContigID  string
	ContigLen int
	FwdPrimer string
	FwdStart  int
	FwdMM     int
	RevPrimer string
	RevStart  int
	RevMM     int
}

// Record holds one parsed primersearch report: primer-pair names in
// report order, and the amplimers recorded under each name. A pair with
// no Amplimer blocks is present with an empty list — its length is the
// authoritative hit count.
type Record struct {
	Names      []string
	Amplifiers map[string][]Amplimer
}

func NewRecord() *Record {
	return &Record{Amplifiers: make(map[string][]Amplimer)}
}
