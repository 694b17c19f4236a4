package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muraschal/radiox-frontend/internal/config"
	"github.com/muraschal/radiox-frontend/internal/generate"
	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/player"
	"github.com/muraschal/radiox-frontend/internal/repo"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source/supabase"
)

// playbackTickInterval drives the transcript synchronization.
const playbackTickInterval = 250 * time.Millisecond

type viewMode int

const (
	viewList viewMode = iota
	viewDetail
	viewPresets
)

// realtimeSubscribed carries the live feed channel into the model.
type realtimeSubscribed struct {
	events <-chan supabase.ShowChange
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg       *config.Config
	repo      *repo.Repository
	orch      *generate.Orchestrator
	player    *player.Player
	datastore *supabase.Client
	realtime  *supabase.Realtime // may be nil

	mode   viewMode
	width  int
	height int

	shows    []show.Show
	cursor   int
	cursorID string
	online   bool
	status   string

	detail *show.Show

	presets      []show.Preset
	voices       []show.Voice
	presetCursor int

	searchInput textinput.Model
	searching   bool

	spinner   spinner.Model
	loading   bool
	notice    string
	scrubbing bool

	events <-chan supabase.ShowChange
}

// New creates the root model.
func New(cfg *config.Config, r *repo.Repository, o *generate.Orchestrator, p *player.Player, ds *supabase.Client, rt *supabase.Realtime) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	ti := textinput.New()
	ti.Placeholder = "Suche nach Titel oder Inhalt..."
	ti.CharLimit = 80

	return Model{
		cfg:         cfg,
		repo:        r,
		orch:        o,
		player:      p,
		datastore:   ds,
		realtime:    rt,
		spinner:     sp,
		searchInput: ti,
		loading:     true,
	}
}

// Init kicks off the initial fetches and the playback tick.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.fetchShowsCmd(),
		m.loadPresetsCmd(),
		m.spinner.Tick,
		tickCmd(),
	}
	if m.realtime != nil {
		cmds = append(cmds, m.subscribeCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(time.Time) tea.Msg {
		return PlaybackTick{}
	})
}

func noticeExpiryCmd() tea.Cmd {
	return tea.Tick(6*time.Second, func(time.Time) tea.Msg {
		return NoticeExpired{}
	})
}

func (m Model) fetchShowsCmd() tea.Cmd {
	limit := m.cfg.UI.ShowListLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return ShowsLoaded{Result: m.repo.FetchShows(ctx, limit, 0)}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	limit := m.cfg.UI.ShowListLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return ShowsLoaded{Result: m.repo.SearchShows(ctx, show.SearchParams{
			Query: query,
			Limit: limit,
		})}
	}
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return ShowDetailLoaded{ID: id, Show: m.repo.GetShowByID(ctx, id)}
	}
}

func (m Model) loadPresetsCmd() tea.Cmd {
	ds := m.datastore
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		presets, voices, err := ds.FetchPresetData(ctx)
		return PresetsLoaded{Presets: presets, Voices: voices, Err: err}
	}
}

func (m Model) generateCmd(req show.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s, msg := m.orch.Generate(ctx, req)
		return GenerationFinished{Show: s, Message: msg}
	}
}

func (m Model) subscribeCmd() tea.Cmd {
	rt := m.realtime
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		events, err := rt.Subscribe(ctx)
		if err != nil {
			logging.Warn("realtime subscription unavailable", "error", err)
			return RealtimeClosed{}
		}
		return realtimeSubscribed{events: events}
	}
}

func waitRealtimeCmd(events <-chan supabase.ShowChange) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-events
		if !ok {
			return RealtimeClosed{}
		}
		return RealtimeChange{Change: change}
	}
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading && !m.orch.IsGenerating() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ShowsLoaded:
		m.loading = false
		m.shows = msg.Result.Shows
		m.online = msg.Result.IsOnline
		m.status = msg.Result.Status
		m.cursor = cursorForID(m.shows, m.cursorID, m.cursor)
		if m.cursor >= 0 && m.cursor < len(m.shows) {
			m.cursorID = m.shows[m.cursor].ID
		}
		return m, nil

	case ShowDetailLoaded:
		if msg.Show != nil {
			m.detail = msg.Show
			m.mode = viewDetail
		} else {
			m.notice = "Show nicht gefunden."
			return m, noticeExpiryCmd()
		}
		return m, nil

	case GenerationFinished:
		m.shows = m.repo.Shows()
		m.cursor = cursorForID(m.shows, m.cursorID, m.cursor)
		if msg.Message != "" {
			m.notice = msg.Message
			return m, noticeExpiryCmd()
		}
		if msg.Show != nil {
			m.cursorID = msg.Show.ID
			m.cursor = cursorForID(m.shows, m.cursorID, 0)
			m.player.LoadShow(msg.Show)
			m.repo.SetCurrentlyPlaying(msg.Show.ID)
		}
		return m, nil

	case PresetsLoaded:
		if msg.Err == nil {
			m.presets = msg.Presets
			m.voices = msg.Voices
		}
		return m, nil

	case realtimeSubscribed:
		m.events = msg.events
		return m, waitRealtimeCmd(m.events)

	case RealtimeChange:
		m.repo.Upsert(msg.Change.Show)
		m.shows = m.repo.Shows()
		m.cursor = cursorForID(m.shows, m.cursorID, m.cursor)
		return m, waitRealtimeCmd(m.events)

	case RealtimeClosed:
		return m, nil

	case PlaybackTick:
		m.player.Tick()
		return m, tickCmd()

	case NoticeExpired:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.teardown()
		return m, tea.Quit

	case "x":
		m.notice = ""
		m.player.ClearError()
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.fetchShowsCmd(), m.spinner.Tick)

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "esc":
		if m.scrubbing {
			m.player.EndDrag()
			m.scrubbing = false
			return m, nil
		}
		if m.mode != viewList {
			m.mode = viewList
		}
		return m, nil

	case "g":
		if len(m.presets) > 0 {
			m.mode = viewPresets
			m.presetCursor = 0
		}
		return m, nil

	case " ":
		m.player.Toggle()
		if p := m.player.Current(); p != nil && m.player.IsPlaying() {
			m.repo.SetCurrentlyPlaying(p.ID)
		}
		return m, nil

	case "m":
		m.player.ToggleMute()
		return m, nil

	case "+", "=":
		m.player.SetVolume(m.player.Volume() + 0.1)
		return m, nil

	case "-":
		m.player.SetVolume(m.player.Volume() - 0.1)
		return m, nil

	case "left":
		m.player.Seek(m.player.DisplayedTime() - 10)
		return m, nil

	case "right":
		m.player.Seek(m.player.DisplayedTime() + 10)
		return m, nil

	// Scrubbing: shift+arrows move the displayed playhead without
	// touching the audio until enter commits the position.
	case "shift+left", "shift+right":
		if !m.scrubbing {
			m.player.BeginDrag()
			m.scrubbing = true
		}
		delta := 5.0
		if msg.String() == "shift+left" {
			delta = -5.0
		}
		m.player.Drag(m.player.DisplayedTime() + delta)
		return m, nil

	case "enter":
		if m.scrubbing {
			m.player.EndDrag()
			m.scrubbing = false
			return m, nil
		}
	}

	switch m.mode {
	case viewList:
		return m.handleListKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewPresets:
		return m.handlePresetKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		query := strings.TrimSpace(m.searchInput.Value())
		m.searchInput.Blur()
		if query == "" {
			return m, m.fetchShowsCmd()
		}
		m.loading = true
		return m, tea.Batch(m.searchCmd(query), m.spinner.Tick)
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, m.fetchShowsCmd()
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.cursorID = m.shows[m.cursor].ID
		}
	case "down", "j":
		if m.cursor < len(m.shows)-1 {
			m.cursor++
			m.cursorID = m.shows[m.cursor].ID
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.shows) {
			s := m.shows[m.cursor]
			if s.IsPlaceholder() {
				return m, nil
			}
			m.repo.SelectShow(s.ID)
			return m, m.loadDetailCmd(s.ID)
		}
	case "p":
		if m.cursor >= 0 && m.cursor < len(m.shows) {
			s := m.shows[m.cursor]
			if s.IsPlaceholder() || !s.HasAudio() {
				return m, nil
			}
			m.player.LoadShow(&s)
			m.player.Play()
			m.repo.SetCurrentlyPlaying(s.ID)
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.mode = viewList
		return m, nil
	}
	switch msg.String() {
	case "enter", "p":
		if m.detail.HasAudio() {
			m.player.LoadShow(m.detail)
			m.player.Play()
			m.repo.SetCurrentlyPlaying(m.detail.ID)
		}
	case "n":
		idx := m.player.CurrentSegmentIndex()
		m.player.JumpToSegment(m.detail, idx+1)
	case "b":
		idx := m.player.CurrentSegmentIndex()
		m.player.JumpToSegment(m.detail, idx-1)
	}
	return m, nil
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case "down", "j":
		if m.presetCursor < len(m.presets)-1 {
			m.presetCursor++
		}
	case "enter":
		if m.orch.IsGenerating() {
			return m, nil
		}
		preset := m.presets[m.presetCursor]
		m.mode = viewList
		req := show.GenerateRequest{
			Preset:         preset.PresetName,
			Channel:        preset.CityFocus,
			PrimarySpeaker: preset.PrimarySpeaker,
			IncludeMusic:   true,
		}
		m.shows = m.repo.Shows()
		return m, tea.Batch(m.generateCmd(req), m.spinner.Tick, m.refreshAfterTriggerCmd())
	}
	return m, nil
}

// refreshAfterTriggerCmd re-reads the collection right after a trigger
// so the placeholder shows up without waiting for the workflow.
func (m Model) refreshAfterTriggerCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ShowsLoaded{Result: repo.FetchResult{
			Shows:    m.repo.Shows(),
			IsOnline: m.online,
			Status:   m.status,
		}}
	})
}

func (m *Model) teardown() {
	if m.realtime != nil {
		m.realtime.Close()
	}
	if err := m.player.Close(); err != nil {
		logging.Debug("player close failed", "error", err)
	}
}

// View renders the current mode plus the player bar and help line.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var body string
	switch m.mode {
	case viewDetail:
		body = m.viewDetailBody(width)
	case viewPresets:
		body = m.viewPresetBody()
	default:
		body = m.viewListBody(width)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RadioX"))
	if m.loading || m.orch.IsGenerating() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	if notice := m.currentNotice(); notice != "" {
		b.WriteString(errorStyle.Render("! "+notice) + dimStyle.Render("  (x: ausblenden)"))
		b.WriteString("\n")
	}

	b.WriteString(renderPlayerBar(m.player, m.player.Current(), m.online, m.status, width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) currentNotice() string {
	if m.notice != "" {
		return m.notice
	}
	return m.player.Err()
}

func (m Model) viewListBody(width int) string {
	if m.searching {
		return m.searchInput.View() + "\n\n" + renderShowList(m.shows, m.cursor, width)
	}
	return renderShowList(m.shows, m.cursor, width)
}

func (m Model) viewDetailBody(width int) string {
	if m.detail == nil {
		return dimStyle.Render("Keine Show ausgewählt.")
	}
	f := show.Format(*m.detail)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.detail.Title))
	b.WriteString("\n")
	meta := fmt.Sprintf("%s  %s  %s", f.FormattedDate, f.FormattedDuration, f.AudioFileSize)
	b.WriteString(dimStyle.Render(strings.TrimSpace(meta)))
	b.WriteString("\n\n")

	if m.detail.ScriptPreview != "" {
		b.WriteString(lipgloss.NewStyle().Width(width - 2).Render(m.detail.ScriptPreview))
		b.WriteString("\n\n")
	}

	b.WriteString(renderTeleprompter(m.player, m.detail, width))
	return b.String()
}

func (m Model) viewPresetBody() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Show generieren"))
	b.WriteString("\n\n")
	for i, p := range m.presets {
		label := p.DisplayName
		if p.Description != "" {
			label += dimStyle.Render("  " + p.Description)
		}
		if v := m.voiceFor(p.PrimarySpeaker); v != "" {
			label += dimStyle.Render("  (" + v + ")")
		}
		if i == m.presetCursor {
			b.WriteString(selectedStyle.Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	if m.orch.IsGenerating() {
		b.WriteString("\n" + generatingStyle.Render("Generierung läuft..."))
	}
	return b.String()
}

// voiceFor resolves a speaker name to its synthesis voice, if known.
func (m Model) voiceFor(speaker string) string {
	for _, v := range m.voices {
		if v.SpeakerName == speaker && v.Active {
			return v.VoiceName
		}
	}
	return ""
}

func (m Model) helpLine() string {
	switch m.mode {
	case viewDetail:
		return "enter/p: abspielen  n/b: segment vor/zurück  ←/→: ±10s  shift+←/→: scrubben  space: pause  esc: zurück  q: beenden"
	case viewPresets:
		return "↑/↓: wählen  enter: generieren  esc: zurück  q: beenden"
	default:
		return "↑/↓: wählen  enter: details  p: abspielen  g: generieren  /: suche  r: aktualisieren  q: beenden"
	}
}
