package report

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
)

const BufferSize = 4096

// Paths are the files produced for one output prefix.
type Paths struct {
	Counts       string
	Unmapped     string
	Summary      string
	GiniPlot     string
	Distribution string
}

func PathsForPrefix(prefix string) Paths {
	return Paths{
		Counts:       prefix + ".count.txt",
		Unmapped:     prefix + ".unmapped.txt",
		Summary:      prefix + ".countsummary.txt",
		GiniPlot:     prefix + "_library_gini_score.png",
		Distribution: prefix + ".distribution.txt",
	}
}

// Options select the optional outputs.
type Options struct {
	Distribution bool
}

// WriteAll renders every output for in next to prefix, creating the prefix's
// directory if needed. The unmapped table is written only when in carries
// one.
func WriteAll(in Input, prefix string, opts Options) (Paths, error) {
	paths := PathsForPrefix(prefix)

	if dir := filepath.Dir(prefix); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return paths, pfx.Err(err)
		}
	}

	jobs := []struct {
		path   string
		render func(io.Writer, Input) error
		skip   bool
	}{
		{paths.Counts, WriteCountTable, false},
		{paths.Unmapped, WriteUnmappedTable, in.Unmapped == nil},
		{paths.Summary, WriteSummary, false},
		{paths.GiniPlot, PlotGini, false},
		{paths.Distribution, WriteDistribution, !opts.Distribution},
	}

	for _, job := range jobs {
		if job.skip {
			continue
		}
		if err := writeFile(job.path, in, job.render); err != nil {
			return paths, err
		}
		log.Println("Wrote", job.path)
	}

	return paths, nil
}

func writeFile(path string, in Input, render func(io.Writer, Input) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	w := bufio.NewWriterSize(f, BufferSize)
	if err := render(w, in); err != nil {
		f.Close()
		return pfx.Err(err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return pfx.Err(f.Close())
}
