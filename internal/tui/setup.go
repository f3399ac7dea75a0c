package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"apitop/internal/config"
	"apitop/internal/tui/theme"
)

// setupModel wraps the first-run form. Field values are pointers because the
// form retains references to them across model copies.
type setupModel struct {
	form        *huh.Form
	backendURL  *string
	intervalSec *string
	themeName   *string
}

type setupError string

func (e setupError) Error() string { return string(e) }

const errEmptyURL = setupError("backend URL is required")

func newSetupModel(cfg config.Config) setupModel {
	backendURL := cfg.Backend.URL
	intervalSec := strconv.Itoa(cfg.Monitor.RefreshIntervalSec)
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the metrics backend").
				Value(&backendURL).
				Validate(func(v string) error {
					if v == "" {
						return errEmptyURL
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Refresh interval").
				Options(
					huh.NewOption("2 seconds", "2"),
					huh.NewOption("5 seconds", "5"),
					huh.NewOption("10 seconds", "10"),
					huh.NewOption("30 seconds", "30"),
				).
				Value(&intervalSec),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	).WithTheme(huh.ThemeBase16())

	return setupModel{
		form:        form,
		backendURL:  &backendURL,
		intervalSec: &intervalSec,
		themeName:   &themeName,
	}
}

func (a *App) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return a, tea.Quit
	}

	form, cmd := a.setup.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setup.form = f
	}

	if a.setup.form.State == huh.StateCompleted {
		a.cfg.Backend.URL = *a.setup.backendURL
		if n, err := strconv.Atoi(*a.setup.intervalSec); err == nil && n > 0 {
			a.cfg.Monitor.RefreshIntervalSec = n
		}
		a.cfg.Appearance.Theme = *a.setup.themeName
		theme.SetActive(a.cfg.Appearance.Theme)
		_ = config.Save(a.cfg)

		a.rebuildClients()
		a.mode = modeMain
		return a, tea.Batch(a.spinner.Tick, a.pollCmd(), tickCmd())
	}
	if a.setup.form.State == huh.StateAborted {
		return a, tea.Quit
	}
	return a, cmd
}

func (a *App) viewSetup() string {
	t := theme.Active
	title := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true).
		Padding(1, 2).
		Render("apitop · first-run setup")
	return title + "\n" + a.setup.form.View()
}
