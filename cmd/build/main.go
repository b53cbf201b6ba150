package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"spacetraveling/cmd/internal/contentclient"
	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/site"
	"spacetraveling/cmd/internal/views"
	"spacetraveling/config"
)

func main() {
	outDir := flag.String("out", "", "output directory (default: site.output_dir)")
	flag.Parse()

	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	opts := site.OptionsFromConfig(cfg)
	if *outDir != "" {
		opts.OutputDir = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := views.New()
	if err != nil {
		log.Fatal(err)
	}
	builder := site.NewBuilder(contentclient.New(cfg.Content), renderer, opts)
	if _, err := builder.Build(ctx); err != nil {
		logger.ErrorWithFields("site build failed", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
