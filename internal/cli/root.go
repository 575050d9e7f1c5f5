// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"primerspec/internal/app"
	"primerspec/internal/config"
	"primerspec/internal/correlate"
	"primerspec/internal/version"
)

// exitError carries a non-zero app exit code through cobra unchanged.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

// Execute parses argv, resolves config, and runs the app. It returns the
// process exit code: 0 ok, 1 unit failures, 2 usage or setup errors.
func Execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var xe *exitError
		if errors.As(err, &xe) {
			return xe.code
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath  string
		embossDir   string
		labelsDir   string
		unclassDir  string
		report      string
		targetTaxon string
		onMissing   string
		threads     int
		summary     bool
		noHeader    bool
		debug       bool
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:           "primerspec",
		Short:         "Correlate in-silico PCR amplification reports with kraken taxonomy labels",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintf(stdout, "primerspec version %s\n", version.Version)
				return nil
			}

			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			fl := cmd.Flags()
			if fl.Changed("emboss-dir") {
				cfg.EmbossDir = embossDir
			}
			if fl.Changed("labels-dir") {
				cfg.LabelsDir = labelsDir
			}
			if fl.Changed("unclassified-dir") {
				cfg.UnclassifiedDir = unclassDir
			}
			if fl.Changed("output") {
				cfg.Report = report
			}
			if fl.Changed("target-taxon") {
				cfg.TargetTaxon = targetTaxon
			}
			if fl.Changed("on-missing-taxon") {
				p, err := correlate.ParsePolicy(onMissing)
				if err != nil {
					return err
				}
				cfg.OnMissingTaxon = p
			}
			if fl.Changed("threads") {
				if threads < 0 {
					return fmt.Errorf("--threads must be >= 0")
				}
				cfg.Threads = threads
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			code := app.Run(cmd.Context(), app.Options{
				Config:  cfg,
				Header:  !noHeader,
				Summary: summary,
				Debug:   debug,
			}, stdout, stderr)
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&configPath, "config", "", "YAML run config (flags override file values)")
	fl.StringVar(&embossDir, "emboss-dir", "", "directory of primersearch result files [*]")
	fl.StringVar(&labelsDir, "labels-dir", "", "directory of kraken-translate label files [*]")
	fl.StringVar(&unclassDir, "unclassified-dir", "", "directory of kraken unclassified FASTA files [*]")
	fl.StringVarP(&report, "output", "o", "-", "report destination ('-' = stdout)")
	fl.StringVar(&targetTaxon, "target-taxon", "Salmonella", "taxon substring for the summary partition")
	fl.StringVar(&onMissing, "on-missing-taxon", string(correlate.PolicyFail), "amplified contig without a label: fail|skip|label")
	fl.IntVar(&threads, "threads", 0, "batch-unit workers (0 = all CPUs)")
	fl.BoolVar(&summary, "summary", false, "print per-unit hit/partition summary to stderr")
	fl.BoolVar(&noHeader, "no-header", false, "suppress the report header row")
	fl.BoolVar(&debug, "debug", false, "verbose per-unit logging")
	fl.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	return cmd
}
