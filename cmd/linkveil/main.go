// Package main wires together the link gateway binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dmarrero/linkveil/internal/api"
	"github.com/dmarrero/linkveil/internal/config"
	"github.com/dmarrero/linkveil/internal/imageurl"
	"github.com/dmarrero/linkveil/internal/link"
	"github.com/dmarrero/linkveil/internal/logging"
	"github.com/dmarrero/linkveil/internal/meta"
	"github.com/dmarrero/linkveil/internal/negotiate"
	memoryStorage "github.com/dmarrero/linkveil/internal/storage/memory"
	"github.com/dmarrero/linkveil/internal/upstream"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := link.NewGenerator(rng, nil)
	store := memoryStorage.NewLinkStore(gen, nil)

	resolver := imageurl.Resolver{
		Mode:          imageurl.Mode(cfg.Image.Mode),
		ProxyBase:     cfg.Server.BaseURL,
		TranslateHost: cfg.Image.TranslateHost,
	}
	synth := meta.NewSynthesizer(rand.New(rand.NewSource(time.Now().UnixNano())), resolver)
	negotiator := negotiate.New(store, synth, cfg.Upstream.SiteBase)
	posts := upstream.New(cfg.Upstream.GraphQLEndpoint, cfg.UpstreamTimeout(), logger.Named("upstream"))

	apiServer := api.NewServer(store, negotiator, synth, resolver, posts, logger.Named("api"), cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
