package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jengzang/thinking-wizard-backend-go/internal/client"
	"github.com/jengzang/thinking-wizard-backend-go/internal/dashboard"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var (
		baseURL  string
		token    string
		action   string
		keywords string
		days     int
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch heatmap data from a running server and print the dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			c := client.New(baseURL, token, timeout)
			now := time.Now()
			d := dashboard.New(c, c, now)

			summary := struct {
				Analysis    *dashboard.AnalysisOutcome `json:"analysis,omitempty"`
				Filters     models.HeatmapFilters      `json:"filters"`
				Points      int                        `json:"points"`
				TopKeywords []models.KeywordScore      `json:"top_keywords"`
				Layers      map[string]int             `json:"layers"`
			}{}

			f := models.DefaultHeatmapFilters(now)
			if days > 0 {
				f.StartDate = f.EndDate.AddDate(0, 0, -days)
			}
			for _, k := range strings.Split(keywords, ",") {
				if k = strings.TrimSpace(k); k != "" {
					f.Keywords = append(f.Keywords, k)
				}
			}
			if err := d.SetFilters(ctx, f); err != nil {
				return fmt.Errorf("failed to fetch heatmap data: %w", err)
			}

			if action != "" {
				outcome := d.TriggerAnalysis(ctx, models.AnalysisAction(action))
				summary.Analysis = &outcome
			}

			layers := d.Layers()
			summary.Filters = d.Filters()
			summary.Points = len(d.Data())
			summary.TopKeywords = d.TopKeywords()
			summary.Layers = map[string]int{
				"density":    len(layers.Density),
				"engagement": len(layers.Engagement),
				"sentiment":  len(layers.Sentiment),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringVar(&action, "analyze", "", "trigger an analysis action before printing")
	cmd.Flags().StringVar(&keywords, "keywords", "", "comma separated keyword filter")
	cmd.Flags().IntVar(&days, "days", 0, "trailing window in days (default 30)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
	return cmd
}
