package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/closurecast/closurecast/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "closurecast",
		Short: "Probabilistic school-closure forecasting through multi-specialist debate",
		Long: "Produces a 0-100 school-closure likelihood by running four independent LLM specialists " +
			"(meteorology, history, safety, news), debating their positions to consensus, and synthesizing " +
			"a structured final decision with a deterministic cold-weather floor.",
	}

	root.PersistentFlags().String("api-key", "", "OpenRouter API key (overrides OPENROUTER_API_KEY env var)")
	root.PersistentFlags().String("output-dir", "output", "Output directory for results")
	root.PersistentFlags().Int("max-rounds", config.DefaultMaxRounds, "Maximum debate rounds")
	root.PersistentFlags().Float64("consensus-threshold", config.DefaultConsensusThreshold, "Consensus threshold in percentage points (consensus when spread <= 2x threshold)")
	root.PersistentFlags().Bool("debate", true, "Run the collaborative debate stage")

	root.AddCommand(newForecastCmd())
	root.AddCommand(newModelsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
