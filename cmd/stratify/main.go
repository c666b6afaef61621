package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "stratify",
	Short: "Cross-framework strategic analysis pipeline",
	Long: "Stratify sequences LLM-backed strategy frameworks over a business\n" +
		"problem: domain extraction, framework claims, assumption comparison\n" +
		"and narrative synthesis, plus a five-whys coach and a Porter's/PESTLE\n" +
		"to SWOT bridge.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
