/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gmaffy/viral-consensus/coverage"
	"github.com/gmaffy/viral-consensus/pipeline"
	"github.com/gmaffy/viral-consensus/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchConsensusCmd represents the batchConsensus command
var batchConsensusCmd = &cobra.Command{
	Use:   "batchConsensus -c <config file> [args]",
	Short: "Builds consensus genomes for every sample of a run",
	Long: `batchConsensus reads a config file of "key: value" lines:

	Reference: /path/to/nCoV-2019.reference.fasta
	OutputDir: /path/to/run
	MinDepth: 3
	MinFraction: 0.8
	threads: 8
	SplitAt: 15000
	Sample: barcode01 /path/to/run/barcode01
	Sample: barcode02 /path/to/run/barcode02

and runs consensus for each sample. Progress is logged to <OutputDir>/consensus.log and
samples already completed there are skipped when the run is repeated.
--reference, --min-depth and --min-fraction override the config file.`,
	Run: func(cmd *cobra.Command, args []string) {

		jobs, jErr := cmd.Flags().GetInt("jobs")
		if jErr != nil {
			log.Fatalf("Error getting jobs flag: %v", jErr)
		}

		force, fErr := cmd.Flags().GetBool("force")
		if fErr != nil {
			log.Fatalf("Error getting force flag: %v", fErr)
		}

		plot, pErr := cmd.Flags().GetBool("plot")
		if pErr != nil {
			log.Fatalf("Error getting plot flag: %v", pErr)
		}

		if cfgFile == "" {
			log.Fatal("Please provide a config file (-c)")
		}
		fmt.Println("Reading config file ...")
		cfg, err := utils.ReadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Error reading config file: %v", err)
		}
		if len(cfg.Samples) == 0 {
			log.Fatalf("No Sample lines in %s", cfgFile)
		}

		batch := pipeline.BatchOptionsFromConfig(cfg, pipeline.Overrides{
			Reference: viper.GetString("reference"),
			Consensus: consensusOptions(),
			Jobs:      jobs,
			IsSet: func(key string) bool {
				if key == "jobs" {
					return cmd.Flags().Changed("jobs")
				}
				return viper.IsSet(key)
			},
		})
		batch.Force = force
		batch.Console = os.Stderr

		if err := utils.CheckFiles(batch.Reference); err != nil {
			log.Fatalf("Input check failed: %v", err)
		}

		samples := batch.Samples
		results, err := pipeline.RunBatch(context.Background(), batch, os.Stdout)
		if err != nil {
			log.Fatalf("Batch consensus failed: %v", err)
		}

		fmt.Printf("\n----------------------------------------------------------\n\n")
		for i, r := range results {
			if r.Skipped || r.Result == nil {
				continue
			}
			fmt.Printf("%s\t%s\t%v\n", r.Name, r.Result.Quality.Label(), r.Result.Quality.Fraction)

			if !plot {
				continue
			}
			depth, err := coverage.ReadDepth(samples[i].Depth)
			if err != nil {
				log.Fatalf("Error reading depth file: %v", err)
			}
			out := filepath.Join(filepath.Dir(samples[i].Depth), r.Name+".coverage.pdf")
			if err := coverage.Plot(depth, out, coverage.PlotOptions{SplitAt: cfg.SplitAt, Title: r.Name}); err != nil {
				log.Fatalf("Error plotting %s: %v", r.Name, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(batchConsensusCmd)

	batchConsensusCmd.Flags().IntP("jobs", "j", 4, "number of samples processed at once (config threads: overrides the default)")
	batchConsensusCmd.Flags().BoolP("force", "f", false, "rerun samples already completed in the log")
	batchConsensusCmd.Flags().Bool("plot", false, "also write <sample>.coverage.pdf next to each depth file")
}
