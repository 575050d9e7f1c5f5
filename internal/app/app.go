// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"primerspec/internal/batch"
	"primerspec/internal/config"
	"primerspec/internal/correlate"
	"primerspec/internal/kraken"
	"primerspec/internal/logging"
	"primerspec/internal/output"
	"primerspec/internal/primersearch"
)

// Options is everything a run needs beyond the resolved config.
type Options struct {
	Config  config.Config
	Header  bool
	Summary bool
	Debug   bool
}

// Run processes every discovered batch unit and writes the consolidated
// report. Exit codes: 0 ok, 1 some units failed, 2 setup error.
func Run(ctx context.Context, opts Options, stdout, stderr io.Writer) int {
	log := logging.New(stderr, opts.Debug)
	cfg := opts.Config

	units, err := batch.Discover(cfg.EmbossDir, cfg.LabelsDir, cfg.UnclassifiedDir, cfg.Suffixes)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(units) == 0 {
		log.Warn("no report files found", "dir", cfg.EmbossDir, "suffix", cfg.Suffixes.Report)
	}

	out, closeOut, err := openReport(cfg.Report, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer closeOut()

	results := processUnits(ctx, cfg, units)

	rw := output.NewReportWriter(out, opts.Header)
	failed := 0
	var summaries []output.Summary
	for _, res := range results {
		if res.err != nil {
			failed++
			log.Error("batch unit failed", "unit", res.unit.RefID, "err", res.err)
			continue
		}
		for _, miss := range res.skipped {
			log.Warn("row skipped: no taxonomy label",
				"unit", res.unit.RefID, "primer", miss.PrimerID, "contig", miss.ContigID)
		}
		if err := rw.WriteRows(res.rows); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		summaries = append(summaries, res.summary)
		log.Debug("batch unit done", "unit", res.unit.RefID, "rows", len(res.rows))
	}
	if err := rw.Flush(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Summary {
		if err := output.WriteSummary(stderr, summaries); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	if ctx.Err() != nil {
		return 1
	}
	if failed > 0 {
		log.Error("run finished with failures", "failed", failed, "total", len(units))
		return 1
	}
	return 0
}

type unitResult struct {
	unit    batch.Unit
	rows    []correlate.Row
	skipped []*correlate.CorrelationError
	summary output.Summary
	err     error
}

// processUnits fans batch units out to a worker pool and collects
// results indexed by unit, so report order never depends on the worker
// count. Units are fully isolated: one unit's failure is recorded in its
// slot and the rest proceed.
func processUnits(ctx context.Context, cfg config.Config, units []batch.Unit) []unitResult {
	threads := cfg.Threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > len(units) {
		threads = len(units)
	}
	results := make([]unitResult, len(units))
	if threads <= 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					results[i] = processUnit(units[i], cfg)
				}
			}
		}()
	}

feed:
	for i := range units {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// processUnit runs one batch unit end to end. Each input stream is
// opened, fully parsed, and closed before the next is touched.
func processUnit(u batch.Unit, cfg config.Config) unitResult {
	res := unitResult{unit: u}

	rec, err := parseReport(u.ReportPath)
	if err != nil {
		res.err = err
		return res
	}
	labels, err := parseLabels(u.LabelsPath)
	if err != nil {
		res.err = err
		return res
	}
	unclassified, err := parseUnclassified(u.UnclassifiedPath)
	if err != nil {
		res.err = err
		return res
	}

	rows, skipped, err := correlate.Rows(u.RefID, rec, labels, cfg.OnMissingTaxon)
	if err != nil {
		res.err = fmt.Errorf("%s: %w", u.ReportPath, err)
		return res
	}
	res.rows = rows
	res.skipped = skipped
	res.summary = output.Summary{
		RefID: u.RefID,
		Hits:  correlate.ClassifyHits(rec),
		Parts: correlate.PartitionByTaxon(labels, unclassified, cfg.TargetTaxon),
	}
	return res
}

func parseReport(path string) (*primersearch.Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	rec, err := primersearch.Read(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func parseLabels(path string) (map[string]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	labels, err := kraken.ReadLabels(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

func parseUnclassified(path string) (map[string]struct{}, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	set, err := kraken.ReadUnclassified(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func openReport(dest string, stdout io.Writer) (io.Writer, func(), error) {
	if dest == "" || dest == "-" {
		bw := bufio.NewWriter(stdout)
		return bw, func() { _ = bw.Flush() }, nil
	}
	fh, err := os.Create(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("create report: %w", err)
	}
	bw := bufio.NewWriter(fh)
	return bw, func() {
		_ = bw.Flush()
		_ = fh.Close()
	}, nil
}
