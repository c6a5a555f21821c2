// Package report renders the results of a counting run: the merged count
// tables, a per-sample summary, a Gini bar chart and an optional look at each
// sample's count distribution.
package report

import (
	"github.com/carbocation/htsensor/counttable"
	"github.com/carbocation/htsensor/tally"
)

// Input is everything the renderers need. It is assembled once after all
// samples are merged and treated as read-only from then on.
type Input struct {
	Labels   []string
	Files    []string
	Sensors  *counttable.Table
	Unmapped *counttable.Table // nil when unmapped reads were not captured
	Stats    []tally.Stats
}

// NewInput takes a finished run. The unmapped table is only carried over when
// includeUnmapped is set.
func NewInput(m *tally.Merged, includeUnmapped bool) Input {
	in := Input{
		Labels:  make([]string, len(m.Stats)),
		Files:   make([]string, len(m.Stats)),
		Sensors: m.Sensors,
		Stats:   make([]tally.Stats, len(m.Stats)),
	}

	copy(in.Stats, m.Stats)
	for i, s := range m.Stats {
		in.Labels[i] = s.Label
		in.Files[i] = s.File
	}

	if includeUnmapped {
		in.Unmapped = m.Unmapped
	}

	return in
}
