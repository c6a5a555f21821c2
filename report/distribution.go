package report

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/htsensor/tally"
	"github.com/montanaflynn/stats"
)

const (
	distributionBins  = 20
	distributionWidth = 40
)

// WriteDistribution describes each sample's per-sensor counts: the mean and
// median raw count, followed by a text histogram of log(count+1), the scale
// the Gini index is computed on.
func WriteDistribution(w io.Writer, in Input) error {
	for j, s := range in.Stats {
		counts := in.Sensors.Column(j)

		raw := make(stats.Float64Data, len(counts))
		for i, c := range counts {
			raw[i] = float64(c)
		}

		mean, err := raw.Mean()
		if err != nil {
			return fmt.Errorf("%s: %w", s.Label, err)
		}
		median, err := raw.Median()
		if err != nil {
			return fmt.Errorf("%s: %w", s.Label, err)
		}

		if _, err := fmt.Fprintf(w, "# %s\tsensors=%d\tmean=%.3f\tmedian=%.3f\tgini=%s\n", s.Label, len(counts), mean, median, formatG(s.Gini)); err != nil {
			return err
		}

		logCounts := tally.LogCounts(counts)
		lo, err := stats.Float64Data(logCounts).Min()
		if err != nil {
			return fmt.Errorf("%s: %w", s.Label, err)
		}
		hi, err := stats.Float64Data(logCounts).Max()
		if err != nil {
			return fmt.Errorf("%s: %w", s.Label, err)
		}
		if lo == hi {
			// A single value cannot be binned
			if _, err := fmt.Fprintf(w, "all %d sensors at log(count+1)=%.3f\n", len(logCounts), lo); err != nil {
				return err
			}
			continue
		}

		hist := histogram.Hist(distributionBins, logCounts)
		if err := histogram.Fprint(w, hist, histogram.Linear(distributionWidth)); err != nil {
			return err
		}
	}

	return nil
}
