// Command radiox is the RadioX terminal client: browse AI-generated
// radio shows, trigger new generations, and play them back with a
// synchronized transcript.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muraschal/radiox-frontend/internal/cache"
	"github.com/muraschal/radiox-frontend/internal/config"
	"github.com/muraschal/radiox-frontend/internal/generate"
	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/player"
	"github.com/muraschal/radiox-frontend/internal/proxy"
	"github.com/muraschal/radiox-frontend/internal/repo"
	"github.com/muraschal/radiox-frontend/internal/source/api"
	"github.com/muraschal/radiox-frontend/internal/source/backend"
	"github.com/muraschal/radiox-frontend/internal/source/supabase"
	"github.com/muraschal/radiox-frontend/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "radiox: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Close()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dataDir := filepath.Join(homeDir, ".radiox")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := cache.NewStore(filepath.Join(dataDir, "cache.db"))
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	apiClient := api.NewClient(cfg.Endpoints.ShowAPIBase)
	supa := supabase.NewClient(cfg.Endpoints.SupabaseURL, cfg.Endpoints.SupabaseAnonKey)
	gen := backend.NewClient(cfg.Endpoints.BackendURL, cfg.Endpoints.AudioServiceURL)

	// The datastore tier only joins the fallback chain when configured;
	// a nil interface skips it cleanly.
	var datastore repo.Datastore
	var syncer generate.Syncer
	var realtime *supabase.Realtime
	if supa.Configured() {
		datastore = supa
		syncer = supa
		realtime = supabase.NewRealtime(cfg.Endpoints.SupabaseURL, cfg.Endpoints.SupabaseAnonKey)
	}

	shows := repo.New(apiClient, datastore, store)
	orch := generate.New(gen, shows, syncer, store)
	pl := player.New(player.NewBeepBackend(), cfg.Playback)
	defer pl.Close()

	if cfg.UI.RunProxy {
		var latest proxy.LatestSource
		if supa.Configured() {
			latest = supa
		}
		srv := proxy.NewServer(cfg.Endpoints.ShowAPIBase, cfg.Endpoints.AudioServiceURL, latest)
		go func() {
			if err := srv.ListenAndServe(context.Background(), cfg.UI.ProxyAddr); err != nil {
				logging.Error("proxy server stopped", "error", err)
			}
		}()
	}

	model := ui.New(cfg, shows, orch, pl, supa, realtime)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}
