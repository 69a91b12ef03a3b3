package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/closurecast/closurecast/internal/config"
	"github.com/closurecast/closurecast/internal/models"
	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/specialist"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List free models and show the role assignment a run would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = config.LoadDotEnv(".env")

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			client := openrouter.NewClient(cfg.APIKey)
			allModels, err := client.ListModels(context.Background())
			if err != nil {
				fmt.Printf("Warning: could not fetch models: %v. Using defaults.\n", err)
				allModels = models.DefaultFreeModels()
			}
			registry := models.NewRegistry(allModels)
			free := registry.FreeModels()
			if len(free) == 0 {
				registry = models.NewRegistry(models.DefaultFreeModels())
				free = registry.FreeModels()
			}

			fmt.Printf("Free models (%d):\n", len(free))
			for _, m := range free {
				fmt.Printf("  %s (%s)\n", m.ID, m.Name)
			}

			assignment := registry.Assign()
			fmt.Println("\nRole assignment:")
			fmt.Printf("  coordinator: %s\n", assignment.Coordinator)
			for _, role := range specialist.Roles {
				fmt.Printf("  %s: %s\n", role, assignment.Specialists[role])
			}
			return nil
		},
	}
}
