/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/gmaffy/viral-consensus/consensus"
	"github.com/gmaffy/viral-consensus/pipeline"
	"github.com/gmaffy/viral-consensus/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// consensusCmd represents the consensus command
var consensusCmd = &cobra.Command{
	Use:   "consensus -r <reference fasta> -s <sample> (-d <sample dir> | -V <vcf> -D <depth> -o <out fasta>)",
	Short: "Builds the consensus genome of one sample",
	Long: `consensus masks every reference position with read depth below --min-depth
with N, then applies the SNPs of the sample VCF. Indels and no-calls are ignored.

Inputs are taken from the nanopolish layout of a sample directory (-d):
	<dir>/nanopolish/<sample>.nanopolish.filt.rename.vcf.gz
	<dir>/nanopolish/<sample>.ref.depth.txt
and the consensus is written to <dir>/nanopolish/<sample>.ref.fasta.
Any of these paths can be given explicitly instead.`,
	Run: func(cmd *cobra.Command, args []string) {

		sampleName, sErr := cmd.Flags().GetString("sample")
		if sErr != nil {
			log.Fatalf("Error getting sample flag: %v", sErr)
		}

		sampleDir, dErr := cmd.Flags().GetString("dir")
		if dErr != nil {
			log.Fatalf("Error getting dir flag: %v", dErr)
		}

		vcfFile, vErr := cmd.Flags().GetString("vcf")
		if vErr != nil {
			log.Fatalf("Error getting vcf flag: %v", vErr)
		}

		depthFile, dpErr := cmd.Flags().GetString("depth")
		if dpErr != nil {
			log.Fatalf("Error getting depth flag: %v", dpErr)
		}

		outFile, oErr := cmd.Flags().GetString("out")
		if oErr != nil {
			log.Fatalf("Error getting out flag: %v", oErr)
		}

		maskedOut, mErr := cmd.Flags().GetString("masked-out")
		if mErr != nil {
			log.Fatalf("Error getting masked-out flag: %v", mErr)
		}

		if sampleName == "" {
			log.Fatal("Please provide a sample name (-s)")
		}

		sample := pipeline.Sample{Name: sampleName}
		if sampleDir != "" {
			sample = pipeline.Layout(sampleDir, sampleName)
		}
		if vcfFile != "" {
			sample.VCF = vcfFile
		}
		if depthFile != "" {
			sample.Depth = depthFile
		}
		if outFile != "" {
			sample.Consensus = outFile
		}
		if cmd.Flags().Changed("masked-out") {
			sample.Masked = maskedOut
		}
		if sample.VCF == "" || sample.Depth == "" || sample.Consensus == "" {
			log.Fatal("Please provide a sample directory (-d) or all of --vcf, --depth and --out")
		}

		refFile := viper.GetString("reference")
		if err := utils.CheckFiles(refFile, sample.VCF, sample.Depth); err != nil {
			log.Fatalf("Input check failed: %v", err)
		}

		ref, err := consensus.ReadReference(refFile)
		if err != nil {
			log.Fatalf("Error reading reference: %v", err)
		}

		res, err := pipeline.RunSample(ref, sample, consensusOptions(), os.Stdout)
		if err != nil {
			log.Fatalf("Consensus failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "%s: %d of %d records applied, %d positions below depth %d, %d no-calls, %d indels, %d masked, %d duplicates skipped\n",
			sample.Name, res.Tally.Applied, res.Tally.Total(), res.LowDepth, viper.GetInt("min-depth"),
			res.Tally.NoCall, res.Tally.Indel, res.Tally.Masked, res.Tally.Duplicate)
	},
}

func init() {
	rootCmd.AddCommand(consensusCmd)

	// -------------------------------------------------- SAMPLE ---------------------------------------------------- //
	consensusCmd.Flags().StringP("sample", "s", "", "Sample name, also used as the consensus fasta ID")
	consensusCmd.Flags().StringP("dir", "d", "", "Sample directory with the nanopolish outputs")

	// ----------------------------------------------- EXPLICIT FILES ----------------------------------------------- //
	consensusCmd.Flags().StringP("vcf", "V", "", "Path to the sample vcf (plain or gzipped)")
	consensusCmd.Flags().StringP("depth", "D", "", "Path to the samtools depth file")
	consensusCmd.Flags().StringP("out", "o", "", "Consensus fasta to write")
	consensusCmd.Flags().String("masked-out", "", "Also write the depth masked reference here (empty disables)")
}
