// Package config describes one counting run: where the library and samples
// live, how reads are classified and where outputs go.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/htsensor"
	"github.com/carbocation/htsensor/tally"
	"github.com/carbocation/pfx"
)

var (
	ErrNoLibrary      = errors.New("a sensor library (--list_seq) is required")
	ErrNoFASTQ        = errors.New("at least one FASTQ file (--fastq) is required")
	ErrLabelCount     = errors.New("the number of labels must be equal to the number of fastq files provided")
	ErrEmptyAnchor    = errors.New("prefix and suffix nucleotide sequences must not be empty")
	ErrVariableLength = errors.New("the variable region length must be a positive integer")
	ErrWorkers        = errors.New("the number of workers must be at least 1")
)

type Config struct {
	ConfigPath string `json:"-"`

	LibraryPath   string `json:"list_seq"`
	LibraryLayout string `json:"library_layout"`

	FASTQ        []string `json:"fastq"`
	SampleLabels []string `json:"sample_label"`
	OutputPrefix string   `json:"output_prefix"`

	Prefix      string `json:"prefix_nucl"`
	Suffix      string `json:"suffix_nucl"`
	VariableLen int    `json:"variable_region_len"`

	UnmappedToFile bool `json:"unmapped_to_file"`
	Distribution   bool `json:"distribution"`
	Workers        int  `json:"workers"`
}

// Default returns the settings used when neither a config file nor a flag
// says otherwise.
func Default() Config {
	return Config{
		LibraryLayout: "AUTO",
		OutputPrefix:  "sample1",
		Prefix:        "A",
		Suffix:        "A",
		VariableLen:   20,
		Workers:       1,
	}
}

// ParseJSONConfigFromPath decodes a JSON run file on top of base, so keys
// missing from the file keep base's values.
func ParseJSONConfigFromPath(path string, base Config) (Config, error) {
	out := base
	out.ConfigPath = path

	f, err := os.Open(htsensor.ExpandHome(path))
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}

		return out, pfx.Err(err)
	}
	out.ConfigPath = path

	return out, nil
}

// SplitList splits a comma separated flag value, trimming whitespace around
// each entry. An empty string yields no entries.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}

// Normalize upper-cases the anchors and expands ~ in local paths.
func (c *Config) Normalize() {
	c.Prefix = strings.ToUpper(strings.TrimSpace(c.Prefix))
	c.Suffix = strings.ToUpper(strings.TrimSpace(c.Suffix))

	c.LibraryPath = htsensor.ExpandHome(c.LibraryPath)
	c.OutputPrefix = htsensor.ExpandHome(c.OutputPrefix)
	for i, p := range c.FASTQ {
		c.FASTQ[i] = htsensor.ExpandHome(p)
	}
}

// Validate catches everything that would make the output tables ambiguous
// before any file is processed.
func (c Config) Validate() error {
	if c.LibraryPath == "" {
		return ErrNoLibrary
	}

	if len(c.FASTQ) == 0 {
		return ErrNoFASTQ
	}
	for i, p := range c.FASTQ {
		if p == "" {
			return fmt.Errorf("FASTQ entry %d is empty: %w", i+1, ErrNoFASTQ)
		}
	}

	if len(c.SampleLabels) > 0 && len(c.SampleLabels) != len(c.FASTQ) {
		return fmt.Errorf("%d labels and %d fastq files: %w", len(c.SampleLabels), len(c.FASTQ), ErrLabelCount)
	}

	if c.Prefix == "" || c.Suffix == "" {
		return ErrEmptyAnchor
	}

	if c.VariableLen <= 0 {
		return ErrVariableLength
	}

	if c.Workers < 1 {
		return ErrWorkers
	}

	return nil
}

// Labels returns the sample labels, defaulting to sample1, sample2, ...
func (c Config) Labels() []string {
	if len(c.SampleLabels) > 0 {
		out := make([]string, len(c.SampleLabels))
		copy(out, c.SampleLabels)
		return out
	}

	out := make([]string, len(c.FASTQ))
	for i := range c.FASTQ {
		out[i] = fmt.Sprintf("sample%d", i+1)
	}

	return out
}

// Samples pairs each FASTQ file with its label.
func (c Config) Samples() []tally.Sample {
	labels := c.Labels()

	out := make([]tally.Sample, len(c.FASTQ))
	for i, p := range c.FASTQ {
		out[i] = tally.Sample{Path: p, Label: labels[i]}
	}

	return out
}

func (c Config) Params() tally.Params {
	return tally.Params{
		Prefix:       c.Prefix,
		Suffix:       c.Suffix,
		VariableLen:  c.VariableLen,
		SaveUnmapped: c.UnmappedToFile,
	}
}
