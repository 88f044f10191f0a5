package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

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
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to config file")
	audio := flag.Bool("audio", false, "export a spoken audio summary")
	refresh := flag.Bool("refresh", false, "bypass the report cache")
	flag.Parse()

	company := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if company == "" {
		fmt.Fprintln(os.Stderr, "usage: pulse [-config config.yaml] [-audio] [-refresh] <company name>")
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	must(err)
	must(logger.Init())
	must(trace.Init())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	provider, err := llm.NewProvider(cfg)
	must(err)

	svc := pipeline.New(cfg, news.NewScraper(cfg), classify.NewAdapter(provider), speech.NewSynthesizer(cfg))

	analyze := svc.Analyze
	if *refresh {
		analyze = svc.Refresh
	}

	rep, err := analyze(ctx, company)
	must(err)

	rendered := report.Render(rep)

	b, err := json.MarshalIndent(rendered, "", "  ")
	must(err)
	fmt.Println(string(b))

	if *audio {
		handle, err := svc.ExportAudio(ctx, rendered.TTSText)
		if err != nil {
			// The report above is already delivered; audio is best effort
			log.Printf("audio export failed: %v", err)
			return
		}
		fmt.Fprintf(os.Stderr, "audio written to %s\n", handle.Path)
	}
}

func loadConfig(path string) (*store.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return store.Default(), nil
	}
	return store.LoadConfig(path)
}
