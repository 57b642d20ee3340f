package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jengzang/thinking-wizard-backend-go/internal/api"
	"github.com/jengzang/thinking-wizard-backend-go/internal/autosave"
	"github.com/jengzang/thinking-wizard-backend-go/internal/canvas"
	"github.com/jengzang/thinking-wizard-backend-go/internal/config"
	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/openai"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newOpenAI(cfg *config.Config) *openai.BreakerClient {
	return openai.NewBreakerClient(openai.NewClient(openai.Config{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		ChatModel:  cfg.OpenAI.ChatModel,
		ImageModel: cfg.OpenAI.ImageModel,
		Timeout:    cfg.OpenAI.Timeout,
	}))
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.With("server")

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()
	db := database.GetDB()

	store, err := storage.Open(storage.Options{Path: cfg.Storage.Path, InMemory: cfg.Storage.InMemory})
	if err != nil {
		return err
	}
	defer store.Close()
	local := storage.NewLocalStore(store)

	ai := newOpenAI(cfg)
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set: generation endpoints will fail, analysis uses the keyword lexicon")
	}

	var saver autosave.Saver = service.NewReflectionService(repository.NewReflectionRepository(db))
	if cfg.Reflections.AutosaveTarget == autosave.TargetLocal {
		saver = autosave.NewLocalSaver(local)
	}
	drafts := autosave.NewRegistry(cfg.Reflections.AutosaveDelay, saver, cfg.Reflections.AutosaveTarget)

	persister := canvas.NewPersister(local, cfg.Canvas.SaveInterval)
	persistCtx, stopPersister := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		persister.Run(persistCtx)
	}()

	// 初始化路由
	router := api.SetupRouter(cfg, api.Deps{
		DB:        db,
		Store:     store,
		OpenAI:    ai,
		Extractor: api.NewExtractor(cfg, ai),
		Drafts:    drafts,
		Canvas:    persister,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			stopPersister()
			wg.Wait()
			drafts.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	// Pending drafts and dirty canvases are written before the stores close
	drafts.Close()
	stopPersister()
	wg.Wait()

	log.Info().Msg("Server stopped")
	return nil
}
