// Package tally streams each sample's reads through the classifier, counts
// sensors per sample and merges the samples into multi-sample tables.
package tally

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"github.com/carbocation/htsensor"
	"github.com/carbocation/htsensor/classify"
	"github.com/carbocation/htsensor/counttable"
	"github.com/carbocation/htsensor/fastq"
	"github.com/carbocation/htsensor/sensorlib"
	"github.com/carbocation/pfx"
)

// ErrLibraryTooSmall is returned when the library cannot support a Gini index.
var ErrLibraryTooSmall = errors.New("the sensor library must hold at least 2 sensors")

// DefaultProgressEvery is how many lines pass between progress messages.
const DefaultProgressEvery = 1000000

// How many reads pass between checks for cancellation.
const cancelCheckEvery = 4096

// Sample is one input file and the label its column will carry.
type Sample struct {
	Path  string
	Label string
}

// Params are the classification settings shared by every sample of a run.
type Params struct {
	Prefix      string
	Suffix      string
	VariableLen int

	// SaveUnmapped keeps a count of every distinct unmapped read. Memory use
	// grows with the number of distinct unmapped reads, without bound.
	SaveUnmapped bool

	// ProgressEvery overrides DefaultProgressEvery when positive.
	ProgressEvery int64
}

func (p Params) classifier(lib *sensorlib.Library) classify.Classifier {
	return classify.Classifier{
		Prefix:      p.Prefix,
		Suffix:      p.Suffix,
		VariableLen: p.VariableLen,
		Library:     lib,
	}
}

// SampleResult is everything learned from one sample.
type SampleResult struct {
	Sample   Sample
	Sensors  *counttable.Tally // every library sensor, in library order
	Unmapped *counttable.Tally // nil unless Params.SaveUnmapped
	Stats    Stats
}

// RunSample opens a local or gs:// FASTQ file, which may be compressed, and
// aggregates it. Any failure to open or read the file is returned.
func RunSample(ctx context.Context, sample Sample, params Params, lib *sensorlib.Library, client *storage.Client) (*SampleResult, error) {
	if lib.Len() < 2 {
		return nil, ErrLibraryTooSmall
	}

	rc, size, err := htsensor.OpenSource(ctx, sample.Path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	log.Printf("Parsing file %s (%d bytes)...\n", sample.Path, size)

	res, err := Aggregate(ctx, rc, sample, params, lib)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sample.Path, err)
	}

	log.Printf("%s pretreatment finalized! mapped: %d\n", sample.Path, res.Stats.Mapped)

	return res, nil
}

// Aggregate classifies every read of an already opened FASTQ stream.
func Aggregate(ctx context.Context, r io.Reader, sample Sample, params Params, lib *sensorlib.Library) (*SampleResult, error) {
	if lib.Len() < 2 {
		return nil, ErrLibraryTooSmall
	}

	res := &SampleResult{
		Sample:  sample,
		Sensors: counttable.NewTallyWithKeys(lib.IDs()),
		Stats: Stats{
			File:  sample.Path,
			Label: sample.Label,
		},
	}
	if params.SaveUnmapped {
		res.Unmapped = counttable.NewTally()
	}

	fr := fastq.NewReader(r)
	fr.ProgressEvery = params.ProgressEvery
	if fr.ProgressEvery <= 0 {
		fr.ProgressEvery = DefaultProgressEvery
	}
	fr.Progress = func(lines int64) {
		log.Printf("%s: processing %dM lines..\n", sample.Label, lines/1000000)
	}

	c := params.classifier(lib)

	for fr.Next() {
		read := fr.Sequence()

		switch out := c.Classify(read); out.Outcome {
		case classify.Matched:
			res.Sensors.AddAt(out.Sensor, 1)
		case classify.SynthesisError:
			res.Stats.SynthesisErrors++
			if res.Unmapped != nil {
				res.Unmapped.Add(read, 1)
			}
		default:
			res.Stats.Unknown++
			if res.Unmapped != nil {
				res.Unmapped.Add(read, 1)
			}
		}

		if fr.Reads()%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := fr.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	res.Stats.Reads = fr.Reads()
	res.Stats.finalize(res.Sensors)

	return res, nil
}
