package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/api"
	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:       "analyze [action]",
		Short:     "Run an analysis action against the local database",
		Long:      "Run one of process_profiles, process_posts, generate_heatmap or full_analysis\nwithout going through the HTTP server. The run is recorded like an API-triggered one.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"process_profiles", "process_posts", "generate_heatmap", "full_analysis"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			ai := newOpenAI(cfg)
			svc := api.NewAnalysisService(cfg, database.GetDB(), api.NewExtractor(cfg, ai))

			result, err := svc.Trigger(cmd.Context(), models.AnalysisRequest{
				Action:    models.AnalysisAction(args[0]),
				BatchSize: batchSize,
			}, "cli")
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per batch (default from config)")
	return cmd
}
