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

// plotCoverageCmd represents the plotCoverage command
var plotCoverageCmd = &cobra.Command{
	Use:   "plotCoverage -D <depth file> -o <out.pdf|png|svg|html>",
	Short: "Plots read depth along the genome",
	Long: `plotCoverage draws read depth against genome position. The output format is taken
from the file extension: pdf, png and svg are static figures, html is an interactive page.
Use --split-at to cut the genome into stacked panels, e.g. --split-at 15000 for two halves.`,
	Run: func(cmd *cobra.Command, args []string) {
		depthFile, dErr := cmd.Flags().GetString("depth")
		if dErr != nil {
			log.Fatalf("Error getting depth flag: %v", dErr)
		}

		outFile, oErr := cmd.Flags().GetString("out")
		if oErr != nil {
			log.Fatalf("Error getting out flag: %v", oErr)
		}

		splitAt, sErr := cmd.Flags().GetIntSlice("split-at")
		if sErr != nil {
			log.Fatalf("Error getting split-at flag: %v", sErr)
		}

		title, tErr := cmd.Flags().GetString("title")
		if tErr != nil {
			log.Fatalf("Error getting title flag: %v", tErr)
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

		if err := coverage.Plot(depth, outFile, coverage.PlotOptions{SplitAt: splitAt, Title: title}); err != nil {
			log.Fatalf("Error plotting coverage: %v", err)
		}
		fmt.Printf("Coverage plot written to %s\n", outFile)
	},
}

func init() {
	rootCmd.AddCommand(plotCoverageCmd)

	plotCoverageCmd.Flags().StringP("depth", "D", "", "Path to the samtools depth file")
	plotCoverageCmd.Flags().StringP("out", "o", "coverage.pdf", "Output figure (.pdf, .png, .svg or .html)")
	plotCoverageCmd.Flags().IntSlice("split-at", nil, "Genome positions where a new panel starts")
	plotCoverageCmd.Flags().StringP("title", "t", "", "Figure title")
}
