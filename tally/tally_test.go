package tally

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/carbocation/htsensor/gini"
	"github.com/carbocation/htsensor/sensorlib"
)

var exampleParams = Params{Prefix: "GG", Suffix: "TT", VariableLen: 4}

func exampleLibrary() *sensorlib.Library {
	return sensorlib.FromEntries([]sensorlib.Entry{
		{ID: "s1", Sequence: "AAAA"},
		{ID: "s2", Sequence: "CCCC"},
	})
}

func fastqOf(reads ...string) string {
	var b strings.Builder
	for i, r := range reads {
		fmt.Fprintf(&b, "@read%d\n%s\n+\n%s\n", i+1, r, strings.Repeat("I", len(r)))
	}

	return b.String()
}

func writeFile(t *testing.T, dir, name, content string, compress bool) string {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !compress {
		if _, err := f.WriteString(content); err != nil {
			t.Fatal(err)
		}
		return path
	}

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestAggregateEndToEnd(t *testing.T) {
	input := fastqOf("GGAAAATT", "GGCCCCTT", "GGGGGGTT")

	res, err := Aggregate(context.Background(), strings.NewReader(input), Sample{Path: "mem", Label: "sample1"}, exampleParams, exampleLibrary())
	if err != nil {
		t.Fatal(err)
	}

	if got := res.Sensors.Counts(); !reflect.DeepEqual(got, []int64{1, 1}) {
		t.Fatalf("Expected sensor counts [1 1], got %v", got)
	}

	// GGGG is not in the library, but its gap of exactly 4 is inside the
	// tolerance band, so the third read is a synthesis error.
	want := Stats{
		File:            "mem",
		Label:           "sample1",
		Reads:           3,
		Mapped:          2,
		SynthesisErrors: 1,
		Unknown:         0,
		TotalSensors:    2,
		ZeroSensors:     0,
		Gini:            gini.Index([]float64{math.Log(2), math.Log(2)}),
	}
	if res.Stats != want {
		t.Fatalf("Expected %+v, got %+v", want, res.Stats)
	}

	if res.Unmapped != nil {
		t.Fatal("Unmapped reads were captured without being requested")
	}
}

func TestAggregateUnmappedCapture(t *testing.T) {
	params := exampleParams
	params.SaveUnmapped = true

	input := fastqOf("GGAAAATT", "ACACACAC", "GGGGGGTT", "ACACACAC")
	res, err := Aggregate(context.Background(), strings.NewReader(input), Sample{Label: "x"}, params, exampleLibrary())
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.Unknown != 2 || res.Stats.SynthesisErrors != 1 {
		t.Fatalf("Unexpected stats %+v", res.Stats)
	}
	if got, want := res.Unmapped.Keys(), []string{"ACACACAC", "GGGGGGTT"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected unmapped keys %v, got %v", want, got)
	}
	if res.Unmapped.Get("ACACACAC") != 2 || res.Unmapped.Get("GGGGGGTT") != 1 {
		t.Fatalf("Unexpected unmapped counts %v", res.Unmapped.Counts())
	}

	// One of two sensors was never seen
	if res.Stats.ZeroSensors != 1 || res.Stats.Mapped != 1 {
		t.Fatalf("Unexpected stats %+v", res.Stats)
	}
	if expected := gini.Index([]float64{math.Log(2), 0}); res.Stats.Gini != expected {
		t.Fatalf("Expected Gini %v, got %v", expected, res.Stats.Gini)
	}
}

func TestAggregateReverseStrand(t *testing.T) {
	lib := sensorlib.FromEntries([]sensorlib.Entry{
		{ID: "s1", Sequence: "AAAA"},
		{ID: "s2", Sequence: "CCCC"},
	})
	params := Params{Prefix: "GACT", Suffix: "TTCA", VariableLen: 4}

	// Reverse complement of GACT-CCCC-TTCA
	res, err := Aggregate(context.Background(), strings.NewReader(fastqOf("TGAAGGGGAGTC")), Sample{}, params, lib)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Sensors.Counts(); !reflect.DeepEqual(got, []int64{0, 1}) {
		t.Fatalf("Expected [0 1], got %v", got)
	}
}

func TestLibraryTooSmall(t *testing.T) {
	lib := sensorlib.FromEntries([]sensorlib.Entry{{ID: "only", Sequence: "AAAA"}})

	_, err := Aggregate(context.Background(), strings.NewReader(""), Sample{}, exampleParams, lib)
	if !errors.Is(err, ErrLibraryTooSmall) {
		t.Fatalf("Expected ErrLibraryTooSmall, got %v", err)
	}

	if _, err := Run(context.Background(), []Sample{{Path: "x"}}, exampleParams, lib, nil, 1); !errors.Is(err, ErrLibraryTooSmall) {
		t.Fatalf("Expected ErrLibraryTooSmall, got %v", err)
	}
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reads := make([]string, cancelCheckEvery)
	for i := range reads {
		reads[i] = "GGAAAATT"
	}

	if _, err := Aggregate(ctx, strings.NewReader(fastqOf(reads...)), Sample{}, exampleParams, exampleLibrary()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestRunMergesInSampleOrder(t *testing.T) {
	dir := t.TempDir()

	params := exampleParams
	params.SaveUnmapped = true

	samples := []Sample{
		{Path: writeFile(t, dir, "a.fastq", fastqOf("GGAAAATT", "GGAAAATT"), false), Label: "a"},
		{Path: writeFile(t, dir, "b.fastq.gz", fastqOf("GGCCCCTT", "TTTTTTTT"), true), Label: "b"},
		{Path: writeFile(t, dir, "c.fastq", fastqOf("GGCCCCTT", "GGAAAATT", "TTTTTTTT", "CACACACA"), false), Label: "c"},
	}

	for _, workers := range []int{1, 3, 8} {
		merged, err := Run(context.Background(), samples, params, exampleLibrary(), nil, workers)
		if err != nil {
			t.Fatal(err)
		}

		if row, _ := merged.Sensors.Row("s1"); !reflect.DeepEqual(row, []int64{2, 0, 1}) {
			t.Fatalf("workers=%d: s1 expected [2 0 1], got %v", workers, row)
		}
		if row, _ := merged.Sensors.Row("s2"); !reflect.DeepEqual(row, []int64{0, 1, 1}) {
			t.Fatalf("workers=%d: s2 expected [0 1 1], got %v", workers, row)
		}

		if got, want := merged.Unmapped.Keys(), []string{"TTTTTTTT", "CACACACA"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("workers=%d: expected unmapped keys %v, got %v", workers, want, got)
		}
		if row, _ := merged.Unmapped.Row("CACACACA"); !reflect.DeepEqual(row, []int64{0, 0, 1}) {
			t.Fatalf("workers=%d: expected [0 0 1], got %v", workers, row)
		}

		var labels []string
		for _, s := range merged.Stats {
			labels = append(labels, s.Label)
		}
		if !reflect.DeepEqual(labels, []string{"a", "b", "c"}) {
			t.Fatalf("workers=%d: stats out of order: %v", workers, labels)
		}
	}
}

func TestRunMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	samples := []Sample{
		{Path: writeFile(t, dir, "a.fastq", fastqOf("GGAAAATT"), false), Label: "a"},
		{Path: filepath.Join(dir, "missing.fastq"), Label: "b"},
	}

	if _, err := Run(context.Background(), samples, exampleParams, exampleLibrary(), nil, 2); err == nil {
		t.Fatal("Expected an error for a missing sample file")
	}
}

func TestMappedFraction(t *testing.T) {
	if f := (Stats{}).MappedFraction(); f != 0 {
		t.Fatalf("Expected 0 for an empty sample, got %v", f)
	}
	if f := (Stats{Reads: 4, Mapped: 1}).MappedFraction(); f != 0.25 {
		t.Fatalf("Expected 0.25, got %v", f)
	}
}
