package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carbocation/htsensor/counttable"
)

// Delim separates the columns of every table this package writes.
const Delim = '\t'

// WriteCountTable writes one row per sensor and one column per sample.
func WriteCountTable(w io.Writer, in Input) error {
	return writeTable(w, "sensor", in.Labels, in.Sensors)
}

// WriteUnmappedTable writes one row per distinct unmapped read. It writes only
// the header when no unmapped reads were captured.
func WriteUnmappedTable(w io.Writer, in Input) error {
	table := in.Unmapped
	if table == nil {
		table = counttable.NewTable()
	}

	return writeTable(w, "unmapped read", in.Labels, table)
}

func writeTable(w io.Writer, keyColumn string, labels []string, table *counttable.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delim

	header := append([]string{keyColumn}, labels...)
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(labels)+1)
	for i, key := range table.Keys() {
		line = line[:1]
		line[0] = key
		for _, c := range table.RowAt(i) {
			line = append(line, strconv.FormatInt(c, 10))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
