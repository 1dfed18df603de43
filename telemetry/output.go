package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/patterns/config"
)

// Artefact kinds recorded in manifest.csv.
const (
	KindImage     = "png"
	KindAnimation = "gif"
	KindVector    = "svg"
	KindSheet     = "sheet"
)

// ArtefactRecord is one manifest.csv row describing a file written to the
// output directory.
type ArtefactRecord struct {
	File     string `csv:"file"`
	Kind     string `csv:"kind"`
	Pattern  string `csv:"pattern"`
	Colormap string `csv:"colormap"`
	Width    int    `csv:"width"`
	Height   int    `csv:"height"`
	Frames   int    `csv:"frames"`
	Seed     int64  `csv:"seed"`

	// Statistics of the raw field (zero for vector and sheet output)
	Min     float64 `csv:"min"`
	Max     float64 `csv:"max"`
	Mean    float64 `csv:"mean"`
	StdDev  float64 `csv:"std"`
	Entropy float64 `csv:"entropy"`

	ElapsedMS int64 `csv:"elapsed_ms"`
}

// WithStats copies field statistics into the record.
func (r ArtefactRecord) WithStats(s FieldStats) ArtefactRecord {
	r.Min, r.Max, r.Mean, r.StdDev, r.Entropy = s.Min, s.Max, s.Mean, s.StdDev, s.Entropy
	return r
}

// OutputManager owns the output directory and its CSV logs.
type OutputManager struct {
	dir          string
	manifestFile *os.File
	perfFile     *os.File

	// Track if headers have been written
	manifestHeaderWritten bool
	perfHeaderWritten     bool
}

// NewOutputManager creates the output directory. manifest.csv and perf.csv
// are only created when the matching flag is set.
func NewOutputManager(dir string, manifest, perf bool) (*OutputManager, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is empty")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	if manifest {
		f, err := os.Create(filepath.Join(dir, "manifest.csv"))
		if err != nil {
			return nil, fmt.Errorf("creating manifest.csv: %w", err)
		}
		om.manifestFile = f
	}

	if perf {
		f, err := os.Create(filepath.Join(dir, "perf.csv"))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating perf.csv: %w", err)
		}
		om.perfFile = f
	}

	return om, nil
}

// Path joins name onto the output directory.
func (om *OutputManager) Path(name string) string {
	return filepath.Join(om.dir, name)
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	return cfg.WriteYAML(om.Path("config.yaml"))
}

// WriteArtefact appends a row to manifest.csv. A no-op when the manifest
// is disabled.
func (om *OutputManager) WriteArtefact(rec ArtefactRecord) error {
	if om.manifestFile == nil {
		return nil
	}
	if err := writeRows(om.manifestFile, []ArtefactRecord{rec}, &om.manifestHeaderWritten); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// WritePerf appends a timing row to perf.csv. A no-op when perf output is
// disabled.
func (om *OutputManager) WritePerf(sample PerfSample) error {
	if om.perfFile == nil {
		return nil
	}
	if err := writeRows(om.perfFile, []PerfRecordCSV{sample.ToCSV()}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeRows marshals records, emitting the header only on the first call.
func writeRows(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	var firstErr error

	if om.manifestFile != nil {
		if err := om.manifestFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		om.manifestFile = nil
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		om.perfFile = nil
	}

	return firstErr
}
