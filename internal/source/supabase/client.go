// Package supabase is the typed client for the managed datastore: a
// PostgREST surface over the shows, show_presets, voice_configurations
// and broadcast_logs tables, plus the realtime change feed on shows.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

// Client talks to the datastore's REST surface. A nil-configured client
// (empty URL or key) fails every call with ErrNotConfigured so the
// repository can fall through.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient creates a datastore client.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// ListShows returns shows ordered newest first.
func (c *Client) ListShows(ctx context.Context, limit, offset int) ([]show.Show, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}

	var rows []row
	if err := c.get(ctx, "shows", q, &rows); err != nil {
		return nil, err
	}
	return normalizeRows(rows), nil
}

// SearchShows queries shows with the given filters, sort and pagination
// pushed down to the datastore.
func (c *Client) SearchShows(ctx context.Context, params show.SearchParams) ([]show.Show, error) {
	q := url.Values{}
	q.Set("select", "*")

	if params.Channel != "" {
		q.Set("channel", "eq."+params.Channel)
	}
	if params.BroadcastStyle != "" {
		q.Set("broadcast_style", "eq."+params.BroadcastStyle)
	}
	if params.Language != "" {
		q.Set("language", "eq."+params.Language)
	}
	if params.PresetName != "" {
		q.Set("preset_name", "eq."+params.PresetName)
	}
	if !params.DateFrom.IsZero() {
		q.Set("created_at", "gte."+params.DateFrom.UTC().Format(time.RFC3339))
	}
	if !params.DateTo.IsZero() {
		q.Add("created_at", "lte."+params.DateTo.UTC().Format(time.RFC3339))
	}
	if params.HasAudio != nil {
		if *params.HasAudio {
			q.Set("audio_url", "not.is.null")
		} else {
			q.Set("audio_url", "is.null")
		}
	}
	if params.Query != "" {
		q.Set("or", fmt.Sprintf("(title.ilike.*%s*,script_preview.ilike.*%s*)", params.Query, params.Query))
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = show.SortByCreatedAt
	}
	dir := "desc"
	if params.SortOrder == "asc" {
		dir = "asc"
	}
	q.Set("order", sortBy+"."+dir)

	if params.Limit > 0 {
		q.Set("limit", fmt.Sprint(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", fmt.Sprint(params.Offset))
	}

	var rows []row
	if err := c.get(ctx, "shows", q, &rows); err != nil {
		return nil, err
	}
	return normalizeRows(rows), nil
}

// GetShow fetches one show by id. A missing row maps to ErrNotFound.
func (c *Client) GetShow(ctx context.Context, id string) (*show.Show, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)
	q.Set("limit", "1")

	var rows []row
	if err := c.get(ctx, "shows", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, source.ErrNotFound
	}
	s := normalizeRow(rows[0])
	return &s, nil
}

// LatestShow returns the newest record with a non-null script via the
// broadcast_logs legacy surface, or ErrNotFound when the table is empty.
func (c *Client) LatestShow(ctx context.Context) (*show.Show, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("script_content", "not.is.null")
	q.Set("order", "timestamp.desc")
	q.Set("limit", "1")

	var rows []row
	if err := c.get(ctx, "broadcast_logs", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, source.ErrNotFound
	}
	s := normalizeRow(rows[0])
	return &s, nil
}

// UpsertShow writes a show by id, replacing an existing row. Used for
// the fire-and-forget sync after generation.
func (c *Client) UpsertShow(ctx context.Context, s show.Show) error {
	if !c.Configured() {
		return source.ErrNotConfigured
	}

	body, err := json.Marshal(toRow(s))
	if err != nil {
		return fmt.Errorf("failed to encode show row: %w", err)
	}

	u := c.baseURL + "/rest/v1/shows"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upsert request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upsert show: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &source.UpstreamError{Service: "datastore", Status: resp.StatusCode}
	}
	return nil
}

// ListPresets and ListVoices back the generation form. Both are fetched
// in parallel by FetchPresetData; without credentials the caller gets
// the built-in mock presets instead of an error.
func (c *Client) ListPresets(ctx context.Context) ([]show.Preset, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_active", "eq.true")
	q.Set("order", "created_at.desc")

	var presets []show.Preset
	if err := c.get(ctx, "show_presets", q, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

func (c *Client) ListVoices(ctx context.Context) ([]show.Voice, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_active", "eq.true")
	q.Set("order", "speaker_name.asc")

	var voices []show.Voice
	if err := c.get(ctx, "voice_configurations", q, &voices); err != nil {
		return nil, err
	}
	return voices, nil
}

// FetchPresetData loads presets and voices in parallel. When the
// datastore is not configured it degrades to the mock preset list and no
// voices, never an error.
func (c *Client) FetchPresetData(ctx context.Context) ([]show.Preset, []show.Voice, error) {
	if !c.Configured() {
		return show.MockPresets(), nil, nil
	}

	var (
		presets []show.Preset
		voices  []show.Voice
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		presets, err = c.ListPresets(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		voices, err = c.ListVoices(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch preset data: %w", err)
	}
	return presets, voices, nil
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out interface{}) error {
	if !c.Configured() {
		return source.ErrNotConfigured
	}

	u := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build datastore request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query datastore: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &source.UpstreamError{Service: "datastore", Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode datastore response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")
}
