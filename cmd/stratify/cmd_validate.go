package main

import (
	"github.com/spf13/cobra"

	"stratify/internal/coach"
	"stratify/internal/config"
)

var validateFlags struct {
	level    int
	root     string
	previous []string
	offline  bool
}

var validateCmd = &cobra.Command{
	Use:   "validate <candidate answer>",
	Short: "Run the five-whys coach on a candidate why-answer",
	Long: `Evaluates one step of a five-whys chain against its root question and
prior answers, printing the verdict, issues and follow-up questions as JSON.
The coach degrades to a conservative needs_clarification verdict when no
judge is reachable, so this command never fails on provider errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.IntVar(&validateFlags.level, "level", 1, "Why level being answered (1-5)")
	f.StringVar(&validateFlags.root, "root", "", "Root question the chain started from")
	f.StringArrayVar(&validateFlags.previous, "prev", nil, "Previously accepted why (repeatable)")
	f.BoolVar(&validateFlags.offline, "offline", false, "Use the deterministic fake LLM client")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if validateFlags.offline {
		cfg.LLM.Offline = true
	}

	fb, err := buildFallback(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer fb.Close()

	co := &coach.Coach{LLM: fb}
	eval := co.ValidateWhy(cmd.Context(), validateFlags.level, args[0], validateFlags.previous, validateFlags.root)
	return writeJSON("", eval)
}
