package tally

import (
	"context"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/carbocation/htsensor/counttable"
	"github.com/carbocation/htsensor/sensorlib"
)

// Merged holds the multi-sample tables. Columns follow the order in which
// samples were added.
type Merged struct {
	Sensors  *counttable.Table
	Unmapped *counttable.Table
	Stats    []Stats
}

func NewMerged() *Merged {
	return &Merged{
		Sensors:  counttable.NewTable(),
		Unmapped: counttable.NewTable(),
	}
}

// Add merges one sample. A sample that did not save unmapped reads
// contributes an empty unmapped column so the two tables stay aligned.
func (m *Merged) Add(res *SampleResult) {
	m.Sensors.Merge(res.Sensors)

	unmapped := res.Unmapped
	if unmapped == nil {
		unmapped = counttable.NewTally()
	}
	m.Unmapped.Merge(unmapped)

	m.Stats = append(m.Stats, res.Stats)
}

// Run aggregates every sample using up to workers concurrent scans and merges
// the results in sample order. The first failure cancels the remaining work
// and is returned; there is no partial result.
func Run(ctx context.Context, samples []Sample, params Params, lib *sensorlib.Library, client *storage.Client, workers int) (*Merged, error) {
	if lib.Len() < 2 {
		return nil, ErrLibraryTooSmall
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(samples) {
		workers = len(samples)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		i   int
		res *SampleResult
		err error
	}

	jobs := make(chan int)
	outcomes := make(chan outcome)

	// Launch workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := RunSample(ctx, samples[i], params, lib, client)
				select {
				case outcomes <- outcome{i: i, res: res, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed jobs in sample order
	go func() {
		defer close(jobs)
		for i := range samples {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]*SampleResult, len(samples))
	var firstErr error
	for o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
				cancel()
			}
			continue
		}
		results[o.i] = o.res
	}

	if firstErr != nil {
		return nil, firstErr
	}

	// Merges happen strictly in sample order regardless of completion order
	merged := NewMerged()
	for _, res := range results {
		if res == nil {
			// Only possible if the parent context was cancelled
			return nil, ctx.Err()
		}
		merged.Add(res)
	}

	return merged, nil
}
