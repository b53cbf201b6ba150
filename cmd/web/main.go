package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spacetraveling/cmd/internal/contentclient"
	"spacetraveling/cmd/internal/eventbus"
	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/site"
	"spacetraveling/cmd/internal/views"
	"spacetraveling/cmd/web/router"
	"spacetraveling/cmd/web/services"
	"spacetraveling/config"
)

// @title           spacetraveling API
// @version         1.0
// @description     Post listing API of the spacetraveling blog
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := contentclient.New(cfg.Content)
	renderer, err := views.New()
	if err != nil {
		log.Fatal(err)
	}

	deps := router.Deps{
		Config:   cfg,
		Posts:    services.NewPostService(client, cfg),
		Renderer: renderer,
	}

	if cfg.Server.WebhookEnabled {
		bus := eventbus.New()
		defer bus.Close()

		rebuilder := site.NewRebuilder(site.NewBuilder(client, renderer, site.OptionsFromConfig(cfg)))
		_, err := bus.SubscribeRebuild(ctx, func(ctx context.Context, event eventbus.RebuildRequestedEvent) error {
			rebuilder.Trigger(ctx, event.Reason)
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
		deps.Bus = bus
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithFields("server shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	logger.InfoWithFields("web server started", logger.Fields{
		"addr":     cfg.Server.Addr,
		"endpoint": cfg.Content.Endpoint,
		"static":   cfg.Server.ServeStatic,
		"webhook":  cfg.Server.WebhookEnabled,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
