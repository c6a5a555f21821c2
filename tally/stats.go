package tally

import (
	"math"

	"github.com/carbocation/htsensor/counttable"
	"github.com/carbocation/htsensor/gini"
)

// Stats summarizes one sample once its file has been fully consumed.
type Stats struct {
	File            string
	Label           string
	Reads           int64
	Mapped          int64
	SynthesisErrors int64
	Unknown         int64
	TotalSensors    int
	ZeroSensors     int
	Gini            float64
}

// MappedFraction is Mapped/Reads, or 0 for a sample without reads.
func (s Stats) MappedFraction() float64 {
	if s.Reads == 0 {
		return 0
	}

	return float64(s.Mapped) / float64(s.Reads)
}

// LogCounts returns log(count+1) for every count, zero counts included.
func LogCounts(counts []int64) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = math.Log(float64(c) + 1.0)
	}

	return out
}

// finalize derives the sensor-dependent statistics from a sample's sensor
// tally. The tally must hold at least 2 sensors.
func (s *Stats) finalize(sensors *counttable.Tally) {
	counts := sensors.Counts()

	s.TotalSensors = len(counts)
	s.Mapped = 0
	s.ZeroSensors = 0
	for _, c := range counts {
		if c > 0 {
			s.Mapped += c
		} else {
			s.ZeroSensors++
		}
	}

	s.Gini = gini.Index(LogCounts(counts))
}
