// htsensorcount collects per-sensor read counts for multiple FASTQ samples.
// Each read is searched, on both strands, for the variable region between a
// prefix and a suffix anchor; the region is then looked up in a library of
// known sensor sequences.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"cloud.google.com/go/storage"
	"github.com/carbocation/htsensor"
	_ "github.com/carbocation/htsensor/compileinfoprint"
	"github.com/carbocation/htsensor/config"
	"github.com/carbocation/htsensor/report"
	"github.com/carbocation/htsensor/sensorlib"
	"github.com/carbocation/htsensor/tally"
	"github.com/carbocation/pfx"
)

func main() {
	var (
		configPath string
		fastqList  string
		labelList  string
	)

	fc := config.Default()

	flag.StringVar(&configPath, "config", "", "Optional: JSON run file. Flags that are explicitly set override its values.")
	flag.StringVar(&fc.LibraryPath, "list_seq", "", "A file containing the list of sensor names and their sequences. Support file format: csv and txt. May be gzipped or a gs:// path.")
	flag.StringVar(&fc.LibraryPath, "l", "", "Shorthand for --list_seq")
	flag.StringVar(&fc.LibraryLayout, "library_layout", fc.LibraryLayout, fmt.Sprint("Layout of the library file. Options: ", sensorlib.LayoutNames()))
	flag.StringVar(&labelList, "sample_label", "", "Sample labels, separated by comma (,). Must be equal to the number of samples provided. Default \"sample1,sample2,...\".")
	flag.StringVar(&fc.OutputPrefix, "output_prefix", fc.OutputPrefix, "The prefix of the output file(s).")
	flag.StringVar(&fc.OutputPrefix, "n", fc.OutputPrefix, "Shorthand for --output_prefix")
	flag.StringVar(&fc.Prefix, "prefix_nucl", fc.Prefix, "Nucleotide sequence upstream the variable region.")
	flag.StringVar(&fc.Suffix, "suffix_nucl", fc.Suffix, "Nucleotide sequence downstream the variable region.")
	flag.IntVar(&fc.VariableLen, "variable_region_len", fc.VariableLen, "Length of the variable region.")
	flag.BoolVar(&fc.UnmappedToFile, "unmapped-to-file", false, "Save unmapped reads to file. Every distinct unmapped read is held in memory until the run ends, so memory use grows with noisy input.")
	flag.StringVar(&fastqList, "fastq", "", "Sample fastq files (plain, gzipped or gs:// paths), separated by comma (,). For example, \"--fastq sample1_replicate1.fastq,sample1_replicate2.fastq.gz\"")
	flag.IntVar(&fc.Workers, "workers", fc.Workers, "Number of sample files to scan concurrently. Output order always follows --fastq.")
	flag.BoolVar(&fc.Distribution, "distribution", false, "Also write a per-sample description of the sensor count distribution.")
	flag.Parse()

	fc.FASTQ = config.SplitList(fastqList)
	fc.SampleLabels = config.SplitList(labelList)

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.ParseJSONConfigFromPath(configPath, cfg)
		if err != nil {
			log.Fatalln(err)
		}
	}
	applyFlags(&cfg, fc)

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalln(err)
	}
}

// applyFlags copies onto cfg every value whose flag was explicitly set.
func applyFlags(cfg *config.Config, fc config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "list_seq", "l":
			cfg.LibraryPath = fc.LibraryPath
		case "library_layout":
			cfg.LibraryLayout = fc.LibraryLayout
		case "sample_label":
			cfg.SampleLabels = fc.SampleLabels
		case "output_prefix", "n":
			cfg.OutputPrefix = fc.OutputPrefix
		case "prefix_nucl":
			cfg.Prefix = fc.Prefix
		case "suffix_nucl":
			cfg.Suffix = fc.Suffix
		case "variable_region_len":
			cfg.VariableLen = fc.VariableLen
		case "unmapped-to-file":
			cfg.UnmappedToFile = fc.UnmappedToFile
		case "fastq":
			cfg.FASTQ = fc.FASTQ
		case "workers":
			cfg.Workers = fc.Workers
		case "distribution":
			cfg.Distribution = fc.Distribution
		}
	})
}

func run(ctx context.Context, cfg config.Config) error {
	var client *storage.Client
	if htsensor.AnyGSPath(append([]string{cfg.LibraryPath}, cfg.FASTQ...)...) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
	}

	layout, err := sensorlib.LayoutByName(cfg.LibraryLayout)
	if err != nil {
		return err
	}

	lib, err := sensorlib.LoadFile(ctx, cfg.LibraryPath, layout, client)
	if err != nil {
		return err
	}
	if skipped := lib.Stats.Skipped(); skipped > 0 {
		log.Printf("Warning: skipped %d of %d library records\n", skipped, lib.Stats.Records)
	}
	if bad := lib.LengthMismatches(cfg.VariableLen); len(bad) > 0 {
		log.Printf("Warning: %d sensors are not %d nt long and can never be matched (first: %s)\n", len(bad), cfg.VariableLen, bad[0])
	}

	merged, err := tally.Run(ctx, cfg.Samples(), cfg.Params(), lib, client, cfg.Workers)
	if err != nil {
		return err
	}

	in := report.NewInput(merged, cfg.UnmappedToFile)
	report.LogSummary(in)

	if _, err := report.WriteAll(in, cfg.OutputPrefix, report.Options{Distribution: cfg.Distribution}); err != nil {
		return err
	}

	return nil
}
