package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
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
	fieldBackendURL = iota
	fieldTimeout
	fieldInterval
	fieldSensitivity
	fieldLive
	fieldBurstSize
	fieldTheme
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Backend URL",
	"Request timeout (s)",
	"Refresh interval (s)",
	"Anomaly sensitivity",
	"Live polling",
	"Burst size",
	"Theme",
}

type settingsModel struct {
	cursor  int
	editing bool
	input   textinput.Model
	status  string
}

func newSettingsModel() settingsModel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40
	return settingsModel{input: ti}
}

func (s *settingsModel) valueFor(cfg config.Config, field int) string {
	switch field {
	case fieldBackendURL:
		return cfg.Backend.URL
	case fieldTimeout:
		return strconv.Itoa(cfg.Backend.TimeoutSec)
	case fieldInterval:
		return strconv.Itoa(cfg.Monitor.RefreshIntervalSec)
	case fieldSensitivity:
		return strconv.FormatFloat(cfg.Monitor.Sensitivity, 'f', 1, 64)
	case fieldLive:
		if cfg.Monitor.LiveStream {
			return "on"
		}
		return "off"
	case fieldBurstSize:
		return strconv.Itoa(cfg.Burst.Size)
	case fieldTheme:
		return cfg.Appearance.Theme
	}
	return ""
}

// handleKey processes a key press for the settings tab and mutates the app
// config when a field is committed.
func (s *settingsModel) handleKey(msg tea.KeyMsg, a *App) tea.Cmd {
	if s.editing {
		switch msg.String() {
		case "enter":
			s.editing = false
			s.commit(a)
			return nil
		case "esc":
			s.editing = false
			s.status = ""
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < fieldCount-1 {
			s.cursor++
		}
	case "enter":
		switch s.cursor {
		case fieldLive:
			a.cfg.Monitor.LiveStream = !a.cfg.Monitor.LiveStream
			a.live = a.cfg.Monitor.LiveStream
			s.save(a)
		case fieldTheme:
			s.cycleTheme(a)
			s.save(a)
		default:
			s.editing = true
			s.input.SetValue(s.valueFor(a.cfg, s.cursor))
			s.input.CursorEnd()
			s.input.Focus()
			return textinput.Blink
		}
	}
	return nil
}

func (s *settingsModel) cycleTheme(a *App) {
	for i, t := range theme.All {
		if t.Name == a.cfg.Appearance.Theme {
			a.cfg.Appearance.Theme = theme.All[(i+1)%len(theme.All)].Name
			theme.SetActive(a.cfg.Appearance.Theme)
			return
		}
	}
	a.cfg.Appearance.Theme = theme.All[0].Name
	theme.SetActive(a.cfg.Appearance.Theme)
}

func (s *settingsModel) commit(a *App) {
	raw := strings.TrimSpace(s.input.Value())
	switch s.cursor {
	case fieldBackendURL:
		if raw == "" {
			s.status = "backend URL cannot be empty"
			return
		}
		a.cfg.Backend.URL = raw
	case fieldTimeout:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.status = "timeout must be a positive integer"
			return
		}
		a.cfg.Backend.TimeoutSec = n
	case fieldInterval:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.status = "interval must be a positive integer"
			return
		}
		a.cfg.Monitor.RefreshIntervalSec = n
	case fieldSensitivity:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.status = "sensitivity must be a number"
			return
		}
		a.cfg.Monitor.Sensitivity = config.ClampSensitivity(f)
	case fieldBurstSize:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.status = "burst size must be a positive integer"
			return
		}
		a.cfg.Burst.Size = n
	}
	s.save(a)
	switch s.cursor {
	case fieldBackendURL, fieldTimeout, fieldInterval:
		a.rebuildClients()
	}
}

func (s *settingsModel) save(a *App) {
	if err := config.Save(a.cfg); err != nil {
		s.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	s.status = "saved to " + config.ConfigPath()
}

// rebuildClients recreates the backend client, poller and burst generator
// after connection settings change. Polling state starts fresh.
func (a *App) rebuildClients() {
	a.client = backend.New(config.BackendURL(a.cfg), time.Duration(a.cfg.Backend.TimeoutSec)*time.Second)
	a.poller = poll.New(a.client, time.Duration(a.cfg.Monitor.RefreshIntervalSec)*time.Second)
	a.gen = burst.New(a.client)
	a.loaded = false
	a.countdown = a.cfg.Monitor.RefreshIntervalSec
}

func (a *App) viewSettings() string {
	t := theme.Active
	s := &a.settings

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	var body strings.Builder
	for i := 0; i < fieldCount; i++ {
		marker := "  "
		lbl := labelStyle.Render(fmt.Sprintf("%-22s", fieldLabels[i]))
		val := valueStyle.Render(s.valueFor(a.cfg, i))
		if i == s.cursor {
			marker = selectedStyle.Render("> ")
			lbl = selectedStyle.Render(fmt.Sprintf("%-22s", fieldLabels[i]))
			if s.editing {
				val = s.input.View()
			}
		}
		body.WriteString(marker + lbl + val + "\n")
	}

	body.WriteString("\n" + lipgloss.NewStyle().Foreground(t.TextDim).
		Render("enter edit/toggle · esc cancel · ↑/↓ select"))
	if s.status != "" {
		body.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Yellow).Render(s.status))
	}

	return components.ContentCard("Settings", body.String(), a.width)
}
