package report

import (
	"encoding/csv"
	"io"
	"log"
	"strconv"

	"github.com/carbocation/htsensor/tally"
	"github.com/gocarina/gocsv"
)

type summaryRow struct {
	File        string `csv:"File"`
	Label       string `csv:"Label"`
	Reads       int64  `csv:"Reads"`
	Mapped      int64  `csv:"Mapped"`
	Synerror    int64  `csv:"Synerror"`
	Unknown     int64  `csv:"Unknown"`
	Percentage  string `csv:"Percentage"`
	TotalsgRNAs int    `csv:"TotalsgRNAs"`
	Zerocounts  int    `csv:"Zerocounts"`
	GiniIndex   string `csv:"GiniIndex"`
}

// formatG prints a float with 4 significant digits.
func formatG(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

func summaryRows(stats []tally.Stats) []*summaryRow {
	out := make([]*summaryRow, 0, len(stats))
	for _, s := range stats {
		out = append(out, &summaryRow{
			File:        s.File,
			Label:       s.Label,
			Reads:       s.Reads,
			Mapped:      s.Mapped,
			Synerror:    s.SynthesisErrors,
			Unknown:     s.Unknown,
			Percentage:  formatG(s.MappedFraction()),
			TotalsgRNAs: s.TotalSensors,
			Zerocounts:  s.ZeroSensors,
			GiniIndex:   formatG(s.Gini),
		})
	}

	return out
}

// WriteSummary writes one tab-delimited line of statistics per sample.
func WriteSummary(w io.Writer, in Input) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delim

	return gocsv.MarshalCSV(summaryRows(in.Stats), gocsv.NewSafeCSVWriter(cw))
}

// LogSummary logs the statistics of every sample.
func LogSummary(in Input) {
	for _, s := range in.Stats {
		log.Printf("Summary of file %s:\n", s.File)
		log.Printf("label\t%s\n", s.Label)
		log.Printf("reads\t%d\n", s.Reads)
		log.Printf("mappedreads\t%d\n", s.Mapped)
		log.Printf("unmap due to syn error\t%d\n", s.SynthesisErrors)
		log.Printf("unmap due to unknown source\t%d\n", s.Unknown)
		log.Printf("totalsensors\t%d\n", s.TotalSensors)
		log.Printf("zerosensors\t%d\n", s.ZeroSensors)
		log.Printf("giniindex\t%s\n", formatG(s.Gini))
	}
}
