// internal/output/report.go
package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"primerspec/internal/correlate"
)

// Header is the canonical report column set. Keep this as the single
// source of truth; all writers and tests should use it.
var Header = []string{
	"PrimerId", "#Hits", "RefId", "ContigId", "AmpLength", "Taxa",
	"ForwardMismatch", "ReverseMismatch", "ForwardStart", "ReverseStart",
	"ForwardPrimerSeq", "ReversePrimerSeq", "Orthogroup",
}

// ReportWriter serializes correlated rows as CSV, writing the header
// once before the first record (unless suppressed).
type ReportWriter struct {
	cw     *csv.Writer
	header bool
	wrote  bool
}

func NewReportWriter(w io.Writer, header bool) *ReportWriter {
	return &ReportWriter{cw: csv.NewWriter(w), header: header}
}

func (w *ReportWriter) WriteRows(rows []correlate.Row) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.PrimerID,
			strconv.Itoa(r.Hits),
			r.RefID,
			r.ContigID,
			strconv.Itoa(r.AmpLen),
			r.Taxa,
			strconv.Itoa(r.FwdMM),
			strconv.Itoa(r.RevMM),
			strconv.Itoa(r.FwdStart),
			strconv.Itoa(r.RevStart),
			r.FwdPrimer,
			r.RevPrimer,
			r.Orthogroup,
		}
		if err := w.cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes the header even when no rows were emitted, matching the
// header-first report contract.
func (w *ReportWriter) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.cw.Flush()
	return w.cw.Error()
}

func (w *ReportWriter) writeHeader() error {
	if !w.header || w.wrote {
		return nil
	}
	w.wrote = true
	return w.cw.Write(Header)
}
