package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/closurecast/closurecast/internal/config"
	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/models"
	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/output"
	"github.com/closurecast/closurecast/internal/pipeline"
	"github.com/closurecast/closurecast/internal/weather"
)

func newForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Run a closure forecast for a date and location",
		RunE:  runForecast,
	}
	cmd.Flags().String("date", "", "Target date, YYYY-MM-DD (required)")
	cmd.Flags().String("location", "", "Location name (required unless --profile is set)")
	cmd.Flags().String("district", "", "School district name")
	cmd.Flags().Float64("lat", 0, "Latitude")
	cmd.Flags().Float64("lon", 0, "Longitude")
	cmd.Flags().String("profile", "", "YAML location profile (overrides location/district/lat/lon)")
	cmd.Flags().String("name", "", "Override output folder name (default: auto-slug from location and date)")
	cmd.MarkFlagRequired("date")
	return cmd
}

// resolveConfig builds the run configuration: environment (including anything
// .env provided) first, explicitly set flags overriding it. The --api-key
// flag wins over OPENROUTER_API_KEY.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	pf := cmd.Root().PersistentFlags()
	if key, _ := pf.GetString("api-key"); key != "" {
		os.Setenv("OPENROUTER_API_KEY", key)
	}
	if os.Getenv("OPENROUTER_API_KEY") == "" {
		return nil, fmt.Errorf("API key required: set --api-key flag or OPENROUTER_API_KEY env var")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if pf.Changed("output-dir") {
		cfg.OutputDir, _ = pf.GetString("output-dir")
	}
	if pf.Changed("max-rounds") {
		cfg.MaxRounds, _ = pf.GetInt("max-rounds")
	}
	if pf.Changed("consensus-threshold") {
		cfg.ConsensusThreshold, _ = pf.GetFloat64("consensus-threshold")
	}
	if pf.Changed("debate") {
		cfg.DebateEnabled, _ = pf.GetBool("debate")
	}
	return cfg, nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	_ = config.LoadDotEnv(".env")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	date, _ := cmd.Flags().GetString("date")
	location, _ := cmd.Flags().GetString("location")
	district, _ := cmd.Flags().GetString("district")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	profilePath, _ := cmd.Flags().GetString("profile")
	name, _ := cmd.Flags().GetString("name")

	if profilePath != "" {
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return err
		}
		location = profile.Location
		district = profile.District
		lat = profile.Latitude
		lon = profile.Longitude
	}
	if location == "" {
		return fmt.Errorf("location required: set --location or --profile")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	fmt.Printf("Fetching forecast for %s on %s...\n", location, date)
	payload, err := weather.NewClient().Fetch(ctx, location, lat, lon, date)
	if err != nil {
		return err
	}
	fctx := forecast.NewContext(date, location, district, payload)

	client := openrouter.NewClient(cfg.APIKey)
	allModels, err := client.ListModels(ctx)
	if err != nil {
		fmt.Printf("Warning: could not fetch models: %v. Using defaults.\n", err)
		allModels = models.DefaultFreeModels()
	}
	registry := models.NewRegistry(allModels)
	if len(registry.FreeModels()) == 0 {
		registry = models.NewRegistry(models.DefaultFreeModels())
	}
	assignment := registry.Assign()

	slug := name
	if slug == "" {
		slug = output.GenerateSlug(fmt.Sprintf("%s-%s", location, date))
	}

	fmt.Printf("Forecast: %s, %s\n", location, date)
	fmt.Printf("Debate: %v | Rounds: up to %d | Threshold: %.0f\n", cfg.DebateEnabled, cfg.MaxRounds, cfg.ConsensusThreshold)

	var runLogs []string
	pipe := pipeline.New(client, pipeline.Options{
		MaxRounds:          cfg.MaxRounds,
		ConsensusThreshold: cfg.ConsensusThreshold,
		DebateEnabled:      cfg.DebateEnabled,
		SpecialistModels:   assignment.Specialists,
		CoordinatorModel:   assignment.Coordinator,
	}, log)
	pipe.OnRound = func(round debate.Round) {
		output.PrintRound(round)
		runLogs = append(runLogs, round.Summary)
	}

	result, err := pipe.Run(ctx, fctx)
	if err != nil {
		// Fatal run failure: nothing is written, not even the run directory.
		return fmt.Errorf("forecast: %w", err)
	}

	runLogs = append(runLogs, fmt.Sprintf("decision: probability %.0f, confidence %s", result.Decision.Probability, result.Decision.ConfidenceLevel))
	outDir, err := output.WriteRun(cfg.OutputDir, slug, result, runLogs)
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	output.PrintDecision(result.Decision)
	fmt.Printf("\nForecast complete. Output saved to: %s\n", outDir)
	return nil
}
