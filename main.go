package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/savorytui/api"
	"github.com/qyinm/savorytui/auth"
	"github.com/qyinm/savorytui/catalog"
	"github.com/qyinm/savorytui/config"
	"github.com/qyinm/savorytui/logging"
	"github.com/qyinm/savorytui/prefs"
	"github.com/qyinm/savorytui/ui"
)

func main() {
	configFile := flag.String("config", "", "path to savory.yaml")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, flush, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer flush()
	log.Infow("starting savorytui", "config", cfg.String())

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithCacheTTL(cfg.API.CacheTTL),
		api.WithAdminPassword(cfg.Admin.Password),
		api.WithLogger(log),
	)
	gateway := catalog.NewGateway(client, log)
	ctrl := catalog.New(cfg.Catalog, gateway, catalog.WithLogger(log))

	store := prefs.Open(cfg.Prefs.Path)
	gate := auth.NewGate(cfg.Admin.Password, store, log)

	model := ui.NewModel(ui.Deps{
		Controller: ctrl,
		Loader:     gateway,
		Backend:    client,
		Gate:       gate,
		Prefs:      store,
		Log:        log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Errorw("program exited with error", "error", err)
		return err
	}
	return nil
}
