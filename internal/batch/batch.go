// internal/batch/batch.go
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Suffixes derive a unit's companion file names from its report name.
type Suffixes struct {
	Report       string
	Labels       string
	Unclassified string
}

// DefaultSuffixes matches the upstream primersearch/kraken pipeline
// naming: sample.emboss, sample.sequence.kraken.labels,
// sample.unclassified.
func DefaultSuffixes() Suffixes {
	return Suffixes{
		Report:       ".emboss",
		Labels:       ".sequence.kraken.labels",
		Unclassified: ".unclassified",
	}
}

// Unit is one batch unit: a primersearch report plus its two kraken
// companions. RefID (the report file name) keys the unit in the output.
type Unit struct {
	RefID            string
	ReportPath       string
	LabelsPath       string
	UnclassifiedPath string
}

// Discover lists report files under embossDir (in name order) and
// derives each unit's companion paths by suffix substitution. Files not
// carrying the report suffix are ignored.
func Discover(embossDir, labelsDir, unclassDir string, sfx Suffixes) ([]Unit, error) {
	entries, err := os.ReadDir(embossDir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var units []Unit
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, sfx.Report) {
			continue
		}
		base := strings.TrimSuffix(name, sfx.Report)
		units = append(units, Unit{
			RefID:            name,
			ReportPath:       filepath.Join(embossDir, name),
			LabelsPath:       filepath.Join(labelsDir, base+sfx.Labels),
			UnclassifiedPath: filepath.Join(unclassDir, base+sfx.Unclassified),
		})
	}
	return units, nil
}
