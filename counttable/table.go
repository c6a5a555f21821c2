package counttable

// Table holds one count column per merged sample. Every row always has
// exactly Samples() entries: a key first seen in the j'th merge is back-filled
// with j-1 zeros.
type Table struct {
	keys     []string
	index    map[string]int
	rows     [][]int64
	nSamples int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Merge appends one sample's counts as a new column. Must be called once per
// sample, in sample order.
func (t *Table) Merge(source *Tally) {
	// Existing keys get this sample's count, or 0 if it was not observed
	for i, k := range t.keys {
		t.rows[i] = append(t.rows[i], source.Get(k))
	}

	// New keys are padded for every earlier sample
	for j, k := range source.keys {
		if _, exists := t.index[k]; exists {
			continue
		}

		row := make([]int64, t.nSamples, t.nSamples+1)
		row = append(row, source.counts[j])

		t.index[k] = len(t.keys)
		t.keys = append(t.keys, k)
		t.rows = append(t.rows, row)
	}

	t.nSamples++
}

// Samples is the number of merges performed so far.
func (t *Table) Samples() int {
	return t.nSamples
}

// Len is the number of distinct keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// Keys returns the keys in first-seen order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)

	return out
}

// Row returns a copy of the per-sample counts for key.
func (t *Table) Row(key string) ([]int64, bool) {
	i, exists := t.index[key]
	if !exists {
		return nil, false
	}

	return t.RowAt(i), true
}

// RowAt returns a copy of the i'th row in key order.
func (t *Table) RowAt(i int) []int64 {
	out := make([]int64, len(t.rows[i]))
	copy(out, t.rows[i])

	return out
}

// Column returns the counts of sample j for every key, in key order.
func (t *Table) Column(j int) []int64 {
	out := make([]int64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}

	return out
}
