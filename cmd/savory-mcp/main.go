package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/config"
	"github.com/qyinm/savorytui/logging"
	"github.com/qyinm/savorytui/mcpsrv"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to savory.yaml")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// log to stderr
	log, flush, err := logging.New(cfg.Log.Level, "")
	if err != nil {
		return err
	}
	defer flush()

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithCacheTTL(cfg.API.CacheTTL),
		api.WithAdminPassword(cfg.Admin.Password),
		api.WithLogger(log),
	)
	server := mcpsrv.NewServer(client, version, &mcpsrv.ServerOptions{
		EnableAdmin: cfg.MCP.EnableAdmin && cfg.MCP.APIKey != "",
		APIKey:      cfg.MCP.APIKey,
		Catalog:     cfg.Catalog,
		Log:         log,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mcpHandler := mcpsrv.NewHandler(server, mcpsrv.StreamableOptions(cfg.MCP))
	r.With(mcpsrv.Guards(cfg.MCP, log)...).Handle("/mcp", mcpsrv.LogRequests(mcpHandler, log))

	go clearCachePeriodically(ctx, client, cfg.MCP.CacheClearInterval, log)

	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.MCP.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warnw("shutdown error", "error", err)
		}
	}()

	log.Infow("savory-mcp listening", "addr", httpServer.Addr, "config", cfg.String())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("server failed", "error", err)
		return err
	}
	return nil
}

func clearCachePeriodically(ctx context.Context, client *api.Client, every time.Duration, log *zap.SugaredLogger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			client.ClearCache()
			log.Debugw("api cache cleared")
		case <-ctx.Done():
			return
		}
	}
}
