package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/config"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "wizard",
		Short:         "Thinking Wizard backend",
		Long:          "Thinking Wizard serves the learning platform API, runs the LinkedIn analysis and\nprovides a terminal view of the heatmap dashboard.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newAnalyzeCmd(), newDashboardCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	gin.SetMode(cfg.Server.Mode)
	return cfg, nil
}
