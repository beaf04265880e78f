package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gmaffy/viral-consensus/consensus"
	"github.com/gmaffy/viral-consensus/utils"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	stageName = "CONSENSUS"
	logName   = "consensus.log"
)

type BatchOptions struct {
	Reference string
	// OutputDir holds the stage log used to skip finished samples on a rerun.
	OutputDir string
	Samples   []Sample
	Consensus consensus.Options
	Jobs      int
	// Force reruns samples the log already marks as completed.
	Force   bool
	Console io.Writer
}

type SampleResult struct {
	Name    string
	Result  *consensus.Result
	Skipped bool
}

// RunBatch runs every sample with at most Jobs in flight. The reference is read once
// and shared read-only. The first failing sample stops samples that have not
// started yet and its error is returned.
func RunBatch(ctx context.Context, o BatchOptions, out io.Writer) ([]SampleResult, error) {
	if o.Console == nil {
		o.Console = os.Stderr
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if err := os.MkdirAll(o.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	logFilePath := filepath.Join(o.OutputDir, logName)
	logged, err := utils.ParseLogFile(logFilePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", logFilePath, err)
	}
	jlog, closer, err := utils.NewStageLogger(logFilePath, o.Console)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", logFilePath, err)
	}
	defer closer.Close()

	ref, err := consensus.ReadReference(o.Reference)
	if err != nil {
		return nil, err
	}
	jlog.Info(stageName, "PROGRAM", "INITIALISE", "SAMPLE", "ALL", "STATUS", utils.StatusStarted,
		"reference", ref.ID, "length", len(ref.Seq), "samples", len(o.Samples))

	results := make([]SampleResult, len(o.Samples))
	var outMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Jobs)

	for i, s := range o.Samples {
		results[i].Name = s.Name
		if !o.Force && utils.StageHasCompleted(logged, stageName, s.Name) {
			fmt.Fprintf(out, "%s has already completed. Skipping.\n", s.Name)
			results[i].Skipped = true
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			jlog.Info(stageName, "PROGRAM", stageName, "SAMPLE", s.Name, "STATUS", utils.StatusStarted)

			var buf bytes.Buffer
			res, err := RunSample(ref, s, o.Consensus, &buf)

			outMu.Lock()
			out.Write(buf.Bytes())
			outMu.Unlock()

			if err != nil {
				jlog.Error(stageName, "PROGRAM", stageName, "SAMPLE", s.Name, "STATUS", utils.StatusFailed, "error", err.Error())
				return err
			}
			jlog.Info(stageName, "PROGRAM", stageName, "SAMPLE", s.Name, "STATUS", utils.StatusCompleted,
				"coverage", res.Quality.Fraction, "high_quality", res.Quality.High,
				"applied", res.Tally.Applied, "elapsed", time.Since(start).String())
			results[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// SamplesFromConfig expands the sample sheet entries with Layout.
func SamplesFromConfig(cfg utils.Config) []Sample {
	return lo.Map(cfg.Samples, func(s utils.Sample, _ int) Sample {
		return Layout(s.Dir, s.Name)
	})
}

// Overrides are the batch settings given on the command line or in the environment.
type Overrides struct {
	Reference string
	Consensus consensus.Options
	Jobs      int
	// IsSet reports whether a setting ("reference", "min-depth", "min-fraction",
	// "jobs") was given explicitly. Explicit settings win over the config file, and
	// the config file wins over defaults.
	IsSet func(key string) bool
}

// BatchOptionsFromConfig merges a sample sheet with the command line settings.
func BatchOptionsFromConfig(cfg utils.Config, ov Overrides) BatchOptions {
	isSet := ov.IsSet
	if isSet == nil {
		isSet = func(string) bool { return false }
	}
	o := BatchOptions{
		Reference: ov.Reference,
		OutputDir: cfg.OutputDir,
		Samples:   SamplesFromConfig(cfg),
		Consensus: ov.Consensus,
		Jobs:      ov.Jobs,
	}
	if cfg.Has("Reference") && !isSet("reference") {
		o.Reference = cfg.Reference
	}
	if cfg.Has("MinDepth") && !isSet("min-depth") {
		o.Consensus.MinDepth = cfg.MinDepth
	}
	if cfg.Has("MinFraction") && !isSet("min-fraction") {
		o.Consensus.MinFraction = cfg.MinFraction
	}
	if cfg.Has("threads") && !isSet("jobs") {
		o.Jobs = cfg.Threads
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	return o
}
