package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/httpapi"
	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/malhttp"
	"github.com/goksgie/basic-myanimelist-crawler/internal/adapters/memorybus"
	"github.com/goksgie/basic-myanimelist-crawler/internal/app"
	"github.com/goksgie/basic-myanimelist-crawler/internal/buildinfo"
	"github.com/goksgie/basic-myanimelist-crawler/internal/config"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "listen address (e.g. 127.0.0.1:8080)")
	baseURL := flag.String("base-url", def.BaseURL, "site base URL")
	workers := flag.Int("workers", def.Workers, "max concurrent detail-page fetches per run")
	timeout := flag.Duration("timeout", def.Timeout, "per-request HTTP timeout")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "malcrawler-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("base_url", *baseURL).Msg("starting")

	bus := memorybus.New()
	defer bus.Close()

	fetcher := malhttp.New(logger, *timeout)
	list := app.NewListPageParser(logger, fetcher).WithBaseURL(*baseURL)
	detail := app.NewDetailPageParser(logger, fetcher)
	checker := app.NewChecker(logger, list, detail, bus, app.CheckerOptions{Workers: *workers})

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(logger, checker, bus)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}
