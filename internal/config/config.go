// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"primerspec/internal/batch"
	"primerspec/internal/correlate"
)

// Config is the resolved run configuration. Flags override file values;
// both fall back to Default().
type Config struct {
	EmbossDir       string
	LabelsDir       string
	UnclassifiedDir string
	Report          string // report destination; "" or "-" means stdout
	TargetTaxon     string
	OnMissingTaxon  correlate.Policy
	Threads         int // worker count for batch units; 0 = all CPUs
	Suffixes        batch.Suffixes
}

func Default() Config {
	return Config{
		Report:         "-",
		TargetTaxon:    "Salmonella",
		OnMissingTaxon: correlate.PolicyFail,
		Suffixes:       batch.DefaultSuffixes(),
	}
}

// yamlConfig is the on-disk shape; mapped onto Config after decode so
// zero values fall back to defaults.
type yamlConfig struct {
	EmbossDir          string `yaml:"emboss_dir"`
	LabelsDir          string `yaml:"labels_dir"`
	UnclassifiedDir    string `yaml:"unclassified_dir"`
	Report             string `yaml:"report"`
	TargetTaxon        string `yaml:"target_taxon"`
	OnMissingTaxon     string `yaml:"on_missing_taxon"`
	Threads            int    `yaml:"threads"`
	ReportSuffix       string `yaml:"report_suffix"`
	LabelsSuffix       string `yaml:"labels_suffix"`
	UnclassifiedSuffix string `yaml:"unclassified_suffix"`
}

// Load reads a YAML config file and maps it onto the defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var dto yamlConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return mapConfig(path, dto)
}

func mapConfig(path string, dto yamlConfig) (Config, error) {
	cfg := Default()
	cfg.EmbossDir = strings.TrimSpace(dto.EmbossDir)
	cfg.LabelsDir = strings.TrimSpace(dto.LabelsDir)
	cfg.UnclassifiedDir = strings.TrimSpace(dto.UnclassifiedDir)
	if dto.Report != "" {
		cfg.Report = dto.Report
	}
	if dto.TargetTaxon != "" {
		cfg.TargetTaxon = dto.TargetTaxon
	}
	if dto.OnMissingTaxon != "" {
		p, err := correlate.ParsePolicy(dto.OnMissingTaxon)
		if err != nil {
			return Config{}, fmt.Errorf("%s: on_missing_taxon: %w", path, err)
		}
		cfg.OnMissingTaxon = p
	}
	if dto.Threads < 0 {
		return Config{}, fmt.Errorf("%s: threads must be >= 0", path)
	}
	cfg.Threads = dto.Threads
	if dto.ReportSuffix != "" {
		cfg.Suffixes.Report = dto.ReportSuffix
	}
	if dto.LabelsSuffix != "" {
		cfg.Suffixes.Labels = dto.LabelsSuffix
	}
	if dto.UnclassifiedSuffix != "" {
		cfg.Suffixes.Unclassified = dto.UnclassifiedSuffix
	}
	return cfg, nil
}

// Validate checks the fields every run needs.
func (c Config) Validate() error {
	if c.EmbossDir == "" {
		return fmt.Errorf("emboss dir is required")
	}
	if c.LabelsDir == "" {
		return fmt.Errorf("labels dir is required")
	}
	if c.UnclassifiedDir == "" {
		return fmt.Errorf("unclassified dir is required")
	}
	return nil
}
