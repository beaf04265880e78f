/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"os"
	"strings"

	"github.com/gmaffy/viral-consensus/consensus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "viral-consensus",
	Short: "Consensus genomes from amplicon sequencing runs",
	Long: `A toolkit for the last steps of a viral amplicon sequencing pipeline:
1.	Consensus: mask low depth positions and apply SNPs to the reference
2.	Coverage statistics: median and mean read depth
3.	Coverage plots: depth along the genome (pdf, png, svg or html)
4.	Batch consensus: every sample of a run from a config file

Root flags can also be set from the environment, e.g. VIRAL_CONSENSUS_REFERENCE.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
	rootCmd.PersistentFlags().StringP("reference", "r", "", "path to reference genome fasta file ")
	rootCmd.PersistentFlags().Int("min-depth", consensus.DefaultMinDepth, "positions with lower read depth are masked with N")
	rootCmd.PersistentFlags().Float64("min-fraction", consensus.DefaultMinFraction, "unmasked fraction above which a genome is high quality")

	for _, name := range []string{"reference", "min-depth", "min-fraction"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.SetEnvPrefix("VIRAL_CONSENSUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func consensusOptions() consensus.Options {
	o := consensus.DefaultOptions()
	o.MinDepth = viper.GetInt("min-depth")
	o.MinFraction = viper.GetFloat64("min-fraction")
	return o
}
