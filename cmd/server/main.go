package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"news-pulse/internal/classify"
	"news-pulse/internal/llm"
	"news-pulse/internal/logger"
	"news-pulse/internal/news"
	"news-pulse/internal/pipeline"
	"news-pulse/internal/report"
	"news-pulse/internal/speech"
	"news-pulse/internal/store"
	"news-pulse/internal/trace"
	"news-pulse/internal/types"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("PULSE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	if err := trace.Init(); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = trace.Shutdown(context.Background()) }()

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	svc := pipeline.New(cfg, news.NewScraper(cfg), classify.NewAdapter(provider), speech.NewSynthesizer(cfg))

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Companies with a cached report
	r.GET("/companies", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"companies": svc.CachedCompanies()})
	})

	// Comparative report for a company (cached or fresh)
	r.GET("/company/:name", func(c *gin.Context) {
		rep, err := svc.Analyze(c.Request.Context(), c.Param("name"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		rendered := report.Render(rep)
		c.JSON(http.StatusOK, gin.H{"company": rep.Company, "data": rendered.Display})
	})

	// Spoken-language audio summary for a company's report
	r.GET("/tts/:name", func(c *gin.Context) {
		rep, err := svc.Analyze(c.Request.Context(), c.Param("name"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		rendered := report.Render(rep)

		handle, err := svc.ExportAudio(c.Request.Context(), rendered.TTSText)
		if err != nil {
			// Report stays retrievable via /company even when speech fails
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"audio_path": handle.Path, "language": handle.Language})
	})

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}

// statusFor maps pipeline errors onto HTTP statuses
func statusFor(err error) int {
	var fetchErr *types.FetchError
	var insufficientErr *types.InsufficientDataError
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &insufficientErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func loadConfig(path string) (*store.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return store.Default(), nil
	}
	return store.LoadConfig(path)
}
