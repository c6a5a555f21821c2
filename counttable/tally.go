// Package counttable holds per-sample counts keyed by an arbitrary string
// (a sensor id or a raw read) and merges them into multi-sample tables.
package counttable

// Tally is one sample's counts. Keys keep the order in which they were first
// added.
type Tally struct {
	keys   []string
	index  map[string]int
	counts []int64
}

func NewTally() *Tally {
	return &Tally{index: make(map[string]int)}
}

// NewTallyWithKeys returns a tally in which every key is present with a zero
// count, in the given order.
func NewTallyWithKeys(keys []string) *Tally {
	t := &Tally{
		keys:   make([]string, 0, len(keys)),
		index:  make(map[string]int, len(keys)),
		counts: make([]int64, 0, len(keys)),
	}
	for _, k := range keys {
		t.Add(k, 0)
	}

	return t
}

// Add increments key by n, introducing it if needed.
func (t *Tally) Add(key string, n int64) {
	i, exists := t.index[key]
	if !exists {
		i = len(t.keys)
		t.index[key] = i
		t.keys = append(t.keys, key)
		t.counts = append(t.counts, 0)
	}
	t.counts[i] += n
}

// AddAt increments the i'th key (in insertion order) by n.
func (t *Tally) AddAt(i int, n int64) {
	t.counts[i] += n
}

// Get returns the count of key, or 0 if it was never added.
func (t *Tally) Get(key string) int64 {
	if i, exists := t.index[key]; exists {
		return t.counts[i]
	}

	return 0
}

func (t *Tally) Has(key string) bool {
	_, exists := t.index[key]
	return exists
}

func (t *Tally) Len() int {
	return len(t.keys)
}

func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)

	return out
}

// Counts returns the counts aligned with Keys.
func (t *Tally) Counts() []int64 {
	out := make([]int64, len(t.counts))
	copy(out, t.counts)

	return out
}

// Total is the sum of all counts.
func (t *Tally) Total() int64 {
	var sum int64
	for _, c := range t.counts {
		sum += c
	}

	return sum
}
