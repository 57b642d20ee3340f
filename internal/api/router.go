package api

import (
	"database/sql"
	"net/http"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/jengzang/thinking-wizard-backend-go/internal/analysis"
	"github.com/jengzang/thinking-wizard-backend-go/internal/autosave"
	"github.com/jengzang/thinking-wizard-backend-go/internal/canvas"
	"github.com/jengzang/thinking-wizard-backend-go/internal/config"
	"github.com/jengzang/thinking-wizard-backend-go/internal/handler"
	"github.com/jengzang/thinking-wizard-backend-go/internal/middleware"
	"github.com/jengzang/thinking-wizard-backend-go/internal/openai"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
	"github.com/jengzang/thinking-wizard-backend-go/internal/service"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived resources the routes are built on
type Deps struct {
	DB        *sql.DB
	Store     *badger.DB
	OpenAI    openai.API
	Extractor analysis.Extractor
	Drafts    *autosave.Registry
	Canvas    *canvas.Persister
}

// NewExtractor picks the LLM extractor when an API key is configured
func NewExtractor(cfg *config.Config, api openai.API) analysis.Extractor {
	if cfg.OpenAI.APIKey == "" {
		return analysis.NewLexiconExtractor()
	}
	return analysis.NewLLMExtractor(api)
}

// NewAnalysisService wires the analysis service; shared by the server and the analyze command
func NewAnalysisService(cfg *config.Config, db *sql.DB, extractor analysis.Extractor) *service.AnalysisService {
	processor := analysis.NewProcessor(
		repository.NewLinkedInRepository(db),
		repository.NewHeatmapRepository(db),
		extractor,
		cfg.Analysis.CellLevel,
	)
	return service.NewAnalysisService(processor, repository.NewAnalysisRunRepository(db),
		cfg.Analysis.DefaultBatchSize, cfg.Analysis.MaxBatchSize)
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	objects := storage.NewObjectStore(deps.Store, cfg.Storage.PublicBaseURL)

	heatmapHandler := handler.NewHeatmapHandler(service.NewHeatmapService(repository.NewHeatmapRepository(deps.DB)))
	analysisHandler := handler.NewAnalysisHandler(NewAnalysisService(cfg, deps.DB, deps.Extractor))
	linkedinHandler := handler.NewLinkedInHandler(service.NewLinkedInService(repository.NewLinkedInRepository(deps.DB)))
	contentHandler := handler.NewContentHandler(
		service.NewContentService(deps.OpenAI),
		service.NewImageService(deps.OpenAI, objects, cfg.Storage.ImageBucket),
	)
	storageHandler := handler.NewStorageHandler(objects)
	reflectionHandler := handler.NewReflectionHandler(
		service.NewReflectionService(repository.NewReflectionRepository(deps.DB)),
		deps.Drafts,
	)
	canvasHandler := handler.NewCanvasHandler(deps.Canvas)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := deps.DB.PingContext(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"message": "Thinking Wizard API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 公开对象存储
	r.GET("/storage/v1/object/public/:bucket/*key", storageHandler.GetObject)

	auth := middleware.Auth(cfg.Security.JWTSecret, cfg.Security.AuthDisabled)

	// Function 路由
	functions := r.Group("/functions/v1")
	functions.Use(middleware.RateLimit(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow), auth)
	{
		functions.POST("/analyze-linkedin", middleware.RequireAdmin(), analysisHandler.Analyze)
		functions.POST("/generate-image", contentHandler.GenerateImage)
		functions.POST("/generate-social-content", contentHandler.GenerateSocialContent)
	}

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(auth)
	{
		heatmap := api.Group("/heatmap")
		{
			heatmap.GET("/points", heatmapHandler.GetPoints)
			heatmap.GET("/layers", heatmapHandler.GetLayers)
			heatmap.GET("/keywords", heatmapHandler.GetKeywords)
		}

		reflections := api.Group("/reflections")
		{
			reflections.GET("", reflectionHandler.List)
			reflections.GET("/:session/:lecture", reflectionHandler.Get)
			reflections.PUT("/:session/:lecture", reflectionHandler.Save)
			reflections.PUT("/:session/:lecture/draft", reflectionHandler.SaveDraft)
			reflections.DELETE("/:session/:lecture/draft", reflectionHandler.DiscardDraft)
		}

		lessons := api.Group("/lessons/:lesson")
		{
			lessons.GET("/graph", canvasHandler.GetGraph)
			lessons.PUT("/graph", canvasHandler.PutGraph)
			lessons.POST("/graph/save", canvasHandler.Save)
			lessons.POST("/answers", canvasHandler.Answer)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/analysis/runs", analysisHandler.ListRuns)
			admin.GET("/analysis/runs/:id", analysisHandler.GetRun)
			admin.POST("/linkedin/profiles", linkedinHandler.ImportProfiles)
			admin.POST("/linkedin/posts", linkedinHandler.ImportPosts)
		}
	}

	return r
}
