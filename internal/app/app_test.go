// internal/app/app_test.go
package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"primerspec/internal/config"
	"primerspec/internal/correlate"
)

const sampleReport = `Primer name P1
Amplimer 1
	Sequence: ctg1
	length=500
	ATGCATGCAT hits forward strand at 10 with 0 mismatches
	CGTACGTACG hits reverse strand at [480] with 1 mismatches
	Amplimer length: 470 bp

Primer name P2

Primer name P3
Amplimer 1
	Sequence: ctg1
	length=500
	AAAACCCCGG hits forward strand at 5 with 1 mismatches
	TTTTGGGGCC hits reverse strand at [300] with 0 mismatches
	Amplimer length: 295 bp
Amplimer 2
	Sequence: ctg2
	length=800
	AAAACCCCGG hits forward strand at 40 with 2 mismatches
	TTTTGGGGCC hits reverse strand at [120] with 0 mismatches
	Amplimer length: 85 bp
`

const sampleLabels = "ctg1\tBacteria;Enterobacteriaceae;Salmonella\nctg2\tBacteria;Escherichia\n"

type fixture struct {
	cfg config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.EmbossDir = t.TempDir()
	cfg.LabelsDir = t.TempDir()
	cfg.UnclassifiedDir = t.TempDir()
	return &fixture{cfg: cfg}
}

func (f *fixture) addUnit(t *testing.T, base, report, labels, unclassified string) {
	t.Helper()
	write := func(dir, name, data string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(f.cfg.EmbossDir, base+".emboss", report)
	write(f.cfg.LabelsDir, base+".sequence.kraken.labels", labels)
	write(f.cfg.UnclassifiedDir, base+".unclassified", unclassified)
}

func runApp(t *testing.T, opts Options) (string, string, int) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := Run(context.Background(), opts, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "sample", sampleReport, sampleLabels, ">u1 len=100\nACGT\n")

	out, errOut, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, errOut)
	}

	want := strings.Join([]string{
		"PrimerId,#Hits,RefId,ContigId,AmpLength,Taxa,ForwardMismatch,ReverseMismatch,ForwardStart,ReverseStart,ForwardPrimerSeq,ReversePrimerSeq,Orthogroup",
		"P1,1,sample.emboss,ctg1,470,Salmonella,0,1,10,480,ATGCATGCAT,CGTACGTACG,tbd",
		"P3,2,sample.emboss,ctg1,295,Salmonella,1,0,5,300,AAAACCCCGG,TTTTGGGGCC,tbd",
		"P3,2,sample.emboss,ctg2,85,Escherichia,2,0,40,120,AAAACCCCGG,TTTTGGGGCC,tbd",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("report:\n%s\nwant:\n%s", out, want)
	}
}

func TestEndToEndSummary(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "sample", sampleReport, sampleLabels, ">u1\nACGT\n>u2\nACGT\n")

	_, errOut, code := runApp(t, Options{Config: f.cfg, Header: true, Summary: true})
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, errOut)
	}
	// P2 no hits, P1 unique, P3 multi; ctg1 target, ctg2 other, 2 unclassified.
	if !strings.Contains(errOut, "sample.emboss\t1\t1\t1\t1\t1\t2") {
		t.Fatalf("summary missing or wrong:\n%s", errOut)
	}
}

func TestMissingLabelFailIsolatesUnit(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "bad", sampleReport, "ctg1\tBacteria;Salmonella\n", "")
	f.addUnit(t, "good", "Primer name P1\nAmplimer 1\n\tSequence: ctg1\n\tlength=10\n\tAAAA hits forward strand at 1 with 0 mismatches\n\tTTTT hits reverse strand at [5] with 0 mismatches\n\tAmplimer length: 5 bp\n", "ctg1\tBacteria;Salmonella\n", "")

	out, errOut, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 1 {
		t.Fatalf("exit %d, want 1 (one unit failed)", code)
	}
	// The failing unit contributes no rows; the good unit still does.
	if strings.Contains(out, "bad.emboss") {
		t.Fatalf("failed unit leaked rows:\n%s", out)
	}
	if !strings.Contains(out, "good.emboss") {
		t.Fatalf("surviving unit missing:\n%s", out)
	}
	if !strings.Contains(errOut, "batch unit failed") {
		t.Fatalf("failure not logged:\n%s", errOut)
	}
}

func TestMissingLabelSkipPolicy(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "sample", sampleReport, "ctg1\tBacteria;Salmonella\n", "")
	f.cfg.OnMissingTaxon = correlate.PolicySkip

	out, errOut, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, errOut)
	}
	if strings.Contains(out, "ctg2") {
		t.Fatalf("unlabeled contig row not skipped:\n%s", out)
	}
	if !strings.Contains(errOut, "row skipped") {
		t.Fatalf("skip not logged:\n%s", errOut)
	}
}

func TestParseErrorIdentifiesUnit(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "broken", "Primer name P1\nAmplimer 1\n\tAAAA hits forward strand at ten with 0 mismatches\n", sampleLabels, "")

	_, errOut, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "broken.emboss") || !strings.Contains(errOut, "line 3") {
		t.Fatalf("error lacks file/line context:\n%s", errOut)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "a", sampleReport, sampleLabels, "")
	f.addUnit(t, "b", sampleReport, sampleLabels, "")
	f.addUnit(t, "c", sampleReport, sampleLabels, "")

	run := func(threads int) string {
		cfg := f.cfg
		cfg.Threads = threads
		out, errOut, code := runApp(t, Options{Config: cfg, Header: true})
		if code != 0 {
			t.Fatalf("exit %d err %s", code, errOut)
		}
		return out
	}
	if serial, parallel := run(1), run(4); serial != parallel {
		t.Fatalf("parallel output differs from serial\nserial:\n%s\nparallel:\n%s", serial, parallel)
	}
}

func TestEmptyRunStillWritesHeader(t *testing.T) {
	f := newFixture(t)
	out, _, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, "PrimerId,") {
		t.Fatalf("header missing on empty run: %q", out)
	}
}

func TestReportFileDestination(t *testing.T) {
	f := newFixture(t)
	f.addUnit(t, "sample", sampleReport, sampleLabels, "")
	dest := filepath.Join(t.TempDir(), "report.csv")
	f.cfg.Report = dest

	out, errOut, code := runApp(t, Options{Config: f.cfg, Header: true})
	if code != 0 {
		t.Fatalf("exit %d, err=%s", code, errOut)
	}
	if out != "" {
		t.Fatalf("stdout should be empty when writing to file: %q", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "P1,1,sample.emboss") {
		t.Fatalf("report file content:\n%s", data)
	}
}
