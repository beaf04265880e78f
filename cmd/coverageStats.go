/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/viral-consensus/coverage"
	"github.com/spf13/cobra"
)

// coverageStatsCmd represents the coverageStats command
var coverageStatsCmd = &cobra.Command{
	Use:   "coverageStats -D <depth file>",
	Short: "Prints the median and mean read depth of a sample",
	Long: `coverageStats reads a samtools depth file (chrom, position, depth; tab or space
separated, no header) and prints the median and mean depth of coverage.`,
	Run: func(cmd *cobra.Command, args []string) {
		depthFile, dErr := cmd.Flags().GetString("depth")
		if dErr != nil {
			log.Fatalf("Error getting depth flag: %v", dErr)
		}

		verbose, vErr := cmd.Flags().GetBool("verbose")
		if vErr != nil {
			log.Fatalf("Error getting verbose flag: %v", vErr)
		}

		depth, err := coverage.ReadDepth(depthFile)
		if err != nil {
			log.Fatalf("Error reading depth file: %v", err)
		}

		summary, err := coverage.Summarize(depth)
		if err != nil {
			log.Fatalf("Error summarising %s: %v", depthFile, err)
		}
		if err := summary.Report(os.Stdout); err != nil {
			log.Fatal(err)
		}
		if verbose {
			fmt.Printf("positions\n%d\nmin depth\n%v\nmax depth\n%v\n", summary.Rows, summary.Min, summary.Max)
		}
	},
}

func init() {
	rootCmd.AddCommand(coverageStatsCmd)

	coverageStatsCmd.Flags().StringP("depth", "D", "", "Path to the samtools depth file")
	coverageStatsCmd.Flags().BoolP("verbose", "v", false, "Also print row count, min and max depth")
}
