package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratify/internal/bridge"
	"stratify/internal/config"
	"stratify/internal/types"
)

var bridgeFlags struct {
	portersPath string
	pestlePath  string
	topN        int
	formatted   bool
	out         string
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Derive SWOT context from Porter's and PESTLE outputs",
	Long: `Reads finished Porter's Five Forces and/or PESTLE outputs from JSON
files and derives ranked opportunity and threat candidates for a SWOT pass.
The derivation is deterministic; identical inputs yield identical output.`,
	RunE: runBridge,
}

func init() {
	f := bridgeCmd.Flags()
	f.StringVar(&bridgeFlags.portersPath, "porters", "", "Path to Porter's output JSON")
	f.StringVar(&bridgeFlags.pestlePath, "pestle", "", "Path to PESTLE output JSON")
	f.IntVar(&bridgeFlags.topN, "top", 0, "Cap per derived list (default: configured bridge_top_n)")
	f.BoolVar(&bridgeFlags.formatted, "formatted", false, "Print the SWOT prompt block instead of JSON")
	f.StringVarP(&bridgeFlags.out, "out", "o", "", "Output path (default: stdout)")
}

func runBridge(cmd *cobra.Command, _ []string) error {
	if bridgeFlags.portersPath == "" && bridgeFlags.pestlePath == "" {
		return fmt.Errorf("at least one of --porters or --pestle is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var porters *types.PortersOutput
	if bridgeFlags.portersPath != "" {
		porters = &types.PortersOutput{}
		if err := readJSONFile(bridgeFlags.portersPath, porters); err != nil {
			return fmt.Errorf("read porters output: %w", err)
		}
	}
	var pestle *types.PestleOutput
	if bridgeFlags.pestlePath != "" {
		pestle = &types.PestleOutput{}
		if err := readJSONFile(bridgeFlags.pestlePath, pestle); err != nil {
			return fmt.Errorf("read pestle output: %w", err)
		}
	}

	topN := bridgeFlags.topN
	if topN <= 0 {
		topN = cfg.Analysis.BridgeTopN
	}
	d := bridge.Derive(porters, pestle, bridge.Options{TopN: topN})

	if bridgeFlags.formatted {
		text := bridge.FormatForSWOT(d)
		if bridgeFlags.out == "" {
			fmt.Println(text)
			return nil
		}
		return writeText(bridgeFlags.out, text)
	}
	return writeJSON(bridgeFlags.out, d)
}
