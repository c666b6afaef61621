package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stratify/internal/config"
	"stratify/internal/pipeline"
)

var analyzeFlags struct {
	understandingID string
	background      string
	assumptions     []string
	outDir          string
	offline         bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <problem statement>",
	Short: "Run the full analysis pipeline on a business problem",
	Long: `Runs domain extraction, framework claim generation, assumption
comparison and narrative synthesis, then writes the result envelope as JSON.

Usage:
  stratify analyze "Should we enter the EV charging market?" \
      --assume "Demand keeps growing" --out ./runs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.understandingID, "id", "", "Understanding ID (default: random UUID)")
	f.StringVar(&analyzeFlags.background, "background", "", "Free-text background for the problem")
	f.StringArrayVar(&analyzeFlags.assumptions, "assume", nil, "User assumption (repeatable)")
	f.StringVarP(&analyzeFlags.outDir, "out", "o", "", "Output directory (default: print to stdout)")
	f.BoolVar(&analyzeFlags.offline, "offline", false, "Use the deterministic fake LLM client")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if analyzeFlags.offline {
		cfg.LLM.Offline = true
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fb, err := buildFallback(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	id := analyzeFlags.understandingID
	if id == "" {
		id = uuid.NewString()
	}

	orch := pipeline.NewOrchestrator(fb, cfg.Analysis.SignificantThreshold, logger)
	result, err := orch.Run(cmd.Context(), id, pipeline.RunInput{
		ProblemStatement: strings.Join(args, " "),
		Background:       analyzeFlags.background,
		Assumptions:      analyzeFlags.assumptions,
	})
	if err != nil {
		return err
	}

	out := ""
	if analyzeFlags.outDir != "" {
		out = filepath.Join(analyzeFlags.outDir, fmt.Sprintf("analysis-%s.json", result.RunID))
	}
	if err := writeJSON(out, result); err != nil {
		return err
	}
	if out != "" {
		fmt.Printf("analysis written to %s (%d LLM calls, %d significant comparisons)\n",
			out, result.Telemetry.LLMCalls, len(result.Significant))
	}
	return nil
}
