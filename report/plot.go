package report

import (
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	plotHeight     = 512
	plotBarWidth   = 40
	plotBarSpacing = 20
	plotMinWidth   = 512
)

// giniBars turns each sample into a bar labeled with the last path component
// of its label. Values are clamped to the plotted [0, 1] range.
func giniBars(in Input) []chart.Value {
	bars := make([]chart.Value, 0, len(in.Stats))
	for _, s := range in.Stats {
		label := s.Label
		if i := strings.LastIndex(label, "/"); i >= 0 {
			label = label[i+1:]
		}

		v := s.Gini
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}

		bars = append(bars, chart.Value{Value: v, Label: label})
	}

	return bars
}

// PlotGini renders a PNG bar chart of the Gini index of each sample.
func PlotGini(w io.Writer, in Input) error {
	bars := giniBars(in)

	width := 160 + len(bars)*(plotBarWidth+plotBarSpacing)
	if width < plotMinWidth {
		width = plotMinWidth
	}

	graph := chart.BarChart{
		Title: "Gini Scores by Library",
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Width:      width,
		Height:     plotHeight,
		BarWidth:   plotBarWidth,
		BarSpacing: plotBarSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}
