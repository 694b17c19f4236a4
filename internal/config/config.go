// Package config holds the runtime configuration for the RadioX terminal
// client: backend endpoints from the environment, plus persisted user
// preferences and playback tuning constants in ~/.radiox/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Endpoints are the external services this client talks to. All of the
// heavy lifting (news selection, script writing, TTS, mixing) happens
// behind these URLs.
type Endpoints struct {
	// ShowAPIBase is the public show-listing API.
	ShowAPIBase string `json:"show_api_base"`
	// BackendURL is the show-generation service (script writing).
	BackendURL string `json:"backend_url"`
	// AudioServiceURL is the audio-synthesis service (TTS + mixing).
	AudioServiceURL string `json:"audio_service_url"`
	// SupabaseURL and SupabaseAnonKey configure the managed datastore.
	// Both empty means "not configured" - the client degrades to the
	// API + cache + demo fallback chain without error.
	SupabaseURL     string `json:"supabase_url,omitempty"`
	SupabaseAnonKey string `json:"-"`
}

// Playback holds the transcript-sync tuning constants. These are
// perceptual heuristics, not correctness requirements, so they are
// configurable rather than hard-coded.
type Playback struct {
	// TailWindowSeconds is the assumed duration of the last transcript
	// line of a segment (no successor to bound it).
	TailWindowSeconds float64 `json:"tail_window_seconds"`
	// HighlightLeadIn advances word highlighting ahead of the computed
	// progress fraction so highlights anticipate speech.
	HighlightLeadIn float64 `json:"highlight_lead_in"`
	// Volume is the initial playback volume in [0, 1].
	Volume float64 `json:"volume"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowListLimit int    `json:"show_list_limit"`
	RunProxy      bool   `json:"run_proxy"`
	ProxyAddr     string `json:"proxy_addr"`
}

// Config is the persistent application configuration
type Config struct {
	Endpoints Endpoints `json:"endpoints"`
	Playback  Playback  `json:"playback"`
	UI        UIConfig  `json:"ui"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Endpoints: Endpoints{
			ShowAPIBase:     "https://api.radiox.cloud",
			BackendURL:      "http://localhost:8001",
			AudioServiceURL: "http://localhost:8003",
		},
		Playback: Playback{
			TailWindowSeconds: 10,
			HighlightLeadIn:   0.12,
			Volume:            0.8,
		},
		UI: UIConfig{
			ShowListLimit: 20,
			RunProxy:      false,
			ProxyAddr:     "localhost:3000",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".radiox", "config.json")
}

// Load reads config from disk (or defaults), then overlays environment
// variables. A .env file in the working directory is honored if present.
func Load() (*Config, error) {
	// Best effort - a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err == nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			cfg = DefaultConfig()
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes config to disk. The anon key is never persisted.
func (c *Config) Save() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("RADIOX_API_BASE"); v != "" {
		c.Endpoints.ShowAPIBase = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Endpoints.BackendURL = v
	}
	if v := os.Getenv("AUDIO_SERVICE_URL"); v != "" {
		c.Endpoints.AudioServiceURL = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Endpoints.SupabaseURL = v
	}
	if v := os.Getenv("SUPABASE_ANON_KEY"); v != "" {
		c.Endpoints.SupabaseAnonKey = v
	}
	if v := os.Getenv("RADIOX_PROXY_ADDR"); v != "" {
		c.UI.ProxyAddr = v
		c.UI.RunProxy = true
	}
}

// normalize clamps tuning values back into sane ranges after a hand-edited
// config file.
func (c *Config) normalize() {
	if c.Playback.TailWindowSeconds <= 0 {
		c.Playback.TailWindowSeconds = 10
	}
	if c.Playback.HighlightLeadIn < 0 || c.Playback.HighlightLeadIn > 1 {
		c.Playback.HighlightLeadIn = 0.12
	}
	if c.Playback.Volume < 0 || c.Playback.Volume > 1 {
		c.Playback.Volume = 0.8
	}
	if c.UI.ShowListLimit <= 0 {
		c.UI.ShowListLimit = 20
	}
}

// SupabaseConfigured reports whether datastore credentials are present.
func (c *Config) SupabaseConfigured() bool {
	return c.Endpoints.SupabaseURL != "" && c.Endpoints.SupabaseAnonKey != ""
}
