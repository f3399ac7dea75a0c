// Package tui implements the interactive terminal dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apitop/internal/backend"
	"apitop/internal/burst"
	"apitop/internal/config"
	"apitop/internal/poll"
	"apitop/internal/tui/components"
	"apitop/internal/tui/theme"
)

const (
	tickInterval = time.Second
	minWidth     = 60
	minHeight    = 20
)

type tickMsg time.Time

type pollDoneMsg struct {
	outcome poll.Outcome
	state   poll.State
}

type burstDoneMsg struct {
	attempted int
}

type mode int

const (
	modeSetup mode = iota
	modeMain
	modeHelp
)

// App is the root Bubble Tea model for the dashboard.
type App struct {
	cfg    config.Config
	client *backend.Client
	poller *poll.Poller
	gen    *burst.Generator

	mode   mode
	width  int
	height int
	tab    int

	spinner    spinner.Model
	loaded     bool
	refreshing bool
	bursting   bool
	live       bool
	countdown  int

	state     poll.State
	lastBurst int
	burstAt   time.Time

	setup    setupModel
	settings settingsModel
}

// NewApp builds the dashboard model. When firstRun is true the app opens with
// the setup form before showing the dashboard.
func NewApp(cfg config.Config, firstRun bool) *App {
	theme.SetActive(cfg.Appearance.Theme)

	client := backend.New(config.BackendURL(cfg), time.Duration(cfg.Backend.TimeoutSec)*time.Second)
	interval := time.Duration(cfg.Monitor.RefreshIntervalSec) * time.Second

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := &App{
		cfg:       cfg,
		client:    client,
		poller:    poll.New(client, interval),
		gen:       burst.New(client),
		mode:      modeMain,
		spinner:   sp,
		live:      cfg.Monitor.LiveStream,
		countdown: cfg.Monitor.RefreshIntervalSec,
		settings:  newSettingsModel(),
	}
	if firstRun {
		a.mode = modeSetup
		a.setup = newSetupModel(cfg)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.mode == modeSetup {
		return a.setup.form.Init()
	}
	return tea.Batch(a.spinner.Tick, a.pollCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) pollCmd() tea.Cmd {
	a.refreshing = true
	p := a.poller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*p.Interval())
		defer cancel()
		out := p.Poll(ctx)
		return pollDoneMsg{outcome: out, state: p.State()}
	}
}

func (a *App) burstCmd() tea.Cmd {
	a.bursting = true
	g := a.gen
	n := a.cfg.Burst.Size
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return burstDoneMsg{attempted: g.Send(ctx, n)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case tickMsg:
		if a.mode == modeSetup {
			return a, tickCmd()
		}
		if a.live && !a.refreshing {
			a.countdown--
			if a.countdown <= 0 {
				a.countdown = a.cfg.Monitor.RefreshIntervalSec
				return a, tea.Batch(tickCmd(), a.pollCmd())
			}
		}
		return a, tickCmd()
	case pollDoneMsg:
		a.refreshing = false
		a.loaded = true
		a.state = msg.state
		a.countdown = a.cfg.Monitor.RefreshIntervalSec
		return a, nil
	case burstDoneMsg:
		a.bursting = false
		a.lastBurst = msg.attempted
		a.burstAt = time.Now()
		// Pull fresh metrics so the burst shows up promptly.
		if !a.refreshing {
			return a, a.pollCmd()
		}
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	switch a.mode {
	case modeSetup:
		return a.updateSetup(msg)
	case modeHelp:
		if _, ok := msg.(tea.KeyMsg); ok {
			a.mode = modeMain
		}
		return a, nil
	}
	return a.updateMain(msg)
}

func (a *App) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if mouse, ok := msg.(tea.MouseMsg); ok {
			return a.handleMouse(mouse)
		}
		return a, nil
	}

	// The settings tab owns most keys while editing a field.
	if a.tab == tabSettings && a.settings.editing {
		cmd := a.settings.handleKey(keyMsg, a)
		return a, cmd
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.mode = modeHelp
	case "r":
		if !a.refreshing {
			return a, a.pollCmd()
		}
	case "g":
		if !a.bursting {
			return a, a.burstCmd()
		}
	case " ":
		a.live = !a.live
		a.countdown = a.cfg.Monitor.RefreshIntervalSec
	case "1":
		a.tab = tabOverview
	case "2":
		a.tab = tabUsers
	case "3":
		a.tab = tabIncidents
	case "4":
		a.tab = tabSettings
	case "tab", "right", "l":
		a.tab = (a.tab + 1) % len(components.Tabs)
	case "shift+tab", "left", "h":
		a.tab = (a.tab + len(components.Tabs) - 1) % len(components.Tabs)
	default:
		if a.tab == tabSettings {
			cmd := a.settings.handleKey(keyMsg, a)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return a, nil
	}
	// Tab bar sits on row 1, below the title.
	if msg.Y == 1 {
		if idx := components.TabAtX(msg.X); idx >= 0 {
			a.tab = idx
		}
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minWidth || a.height < minHeight {
		return lipgloss.NewStyle().
			Foreground(theme.Active.TextMuted).
			Render(fmt.Sprintf("Terminal too small (%dx%d). Need at least %dx%d.",
				a.width, a.height, minWidth, minHeight))
	}

	switch a.mode {
	case modeSetup:
		return a.viewSetup()
	case modeHelp:
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a *App) viewMain() string {
	t := theme.Active
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Background).
		Bold(true).
		Padding(0, 1).
		Render("apitop")
	endpoint := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Background).
		Render(a.client.BaseURL())
	b.WriteString(title + " " + endpoint + "\n")

	b.WriteString(components.RenderTabBar(a.tab, a.width) + "\n")

	bodyHeight := a.height - 3 // title, tab bar, status bar
	var body string
	if !a.loaded {
		body = a.viewLoading()
	} else {
		switch a.tab {
		case tabOverview:
			body = a.viewOverview()
		case tabUsers:
			body = a.viewUsers()
		case tabIncidents:
			body = a.viewIncidents()
		case tabSettings:
			body = a.viewSettings()
		}
	}
	b.WriteString(padHeight(body, bodyHeight))

	b.WriteString(a.viewStatusBar())
	return fillBackground(b.String(), a.width)
}

func (a *App) viewLoading() string {
	return "\n " + a.spinner.View() + lipgloss.NewStyle().
		Foreground(theme.Active.TextMuted).
		Render(" Connecting to "+a.client.BaseURL()+" ...")
}

func (a *App) viewStatusBar() string {
	var left string
	alert := false
	switch {
	case !a.loaded:
		left = "● connecting"
	case a.state.Unreachable:
		left = "● backend unreachable"
		alert = true
	case a.refreshing:
		left = "● refreshing"
	case a.live:
		left = fmt.Sprintf("● live · next poll %ds", a.countdown)
	default:
		left = "● paused"
	}
	if a.bursting {
		left += " · sending burst"
	} else if a.lastBurst > 0 && time.Since(a.burstAt) < 10*time.Second {
		left += fmt.Sprintf(" · burst sent (%d)", a.lastBurst)
	}
	right := "r refresh · g burst · space pause · ? help · q quit"
	return components.StatusBar(left, right, a.width, alert)
}

func (a *App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	rows := [][2]string{
		{"1-4", "switch tab"},
		{"tab / shift+tab", "next / previous tab"},
		{"r", "refresh metrics now"},
		{"g", "send a synthetic traffic burst"},
		{"space", "pause / resume live polling"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("  Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-16s", r[0])),
			descStyle.Render(r[1])))
	}
	b.WriteString("\n" + descStyle.Render("  press any key to return"))
	return padHeight(b.String(), a.height)
}

// padHeight pads or truncates content to exactly h lines.
func padHeight(content string, h int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func fillBackground(content string, w int) string {
	bg := lipgloss.NewStyle().Background(theme.Active.Background)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if pad := w - lipgloss.Width(line); pad > 0 {
			lines[i] = line + bg.Render(strings.Repeat(" ", pad))
		}
	}
	return strings.Join(lines, "\n")
}
