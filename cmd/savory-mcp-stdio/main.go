package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/config"
	"github.com/qyinm/savorytui/logging"
	"github.com/qyinm/savorytui/mcpsrv"
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

	// stdout carries the protocol
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
		EnableAdmin: cfg.MCP.EnableAdmin,
		APIKey:      cfg.MCP.APIKey,
		Catalog:     cfg.Catalog,
		Log:         log,
	})

	if every := cfg.MCP.CacheClearInterval; every > 0 {
		go func() {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					client.ClearCache()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorw("stdio mcp server failed", "error", err)
		return err
	}
	return nil
}
