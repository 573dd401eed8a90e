package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
)

const reportTimeout = 2 * time.Minute

type reportState int

const (
	reportStateTimeframe reportState = iota
	reportStatePath
	reportStateDownloading
	reportStateResult
)

// ReportModel saves the sales workbook for a chosen range to disk.
type ReportModel struct {
	CommonModel
	api      API
	branchID int64

	state           reportState
	err             error
	timeframePicker TimeframePicker
	rng             client.Range

	form    *huh.Form
	dir     string
	spinner spinner.Model
	written string
}

func NewReportModel(api API, branchID int64) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		api:             api,
		branchID:        branchID,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		dir:             "./reports",
		spinner:         s,
	}
}

// WithClock replaces the clock the timeframe presets are resolved against.
func (m ReportModel) WithClock(now func() time.Time) ReportModel {
	m.timeframePicker = m.timeframePicker.WithClock(now)
	return m
}

func (m ReportModel) Title() string { return "Sales Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateDownloading:
		return "Downloading..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.rng = client.Range{BranchID: m.branchID, Start: tfMsg.Start, End: tfMsg.End}
		m.form = m.buildPathForm()
		m.state = reportStatePath
		return m, m.form.Init()
	}

	switch m.state {
	case reportStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
		return m, cmd

	case reportStatePath:
		return m.updatePath(msg)

	case reportStateDownloading:
		if result, ok := msg.(reportSavedMsg); ok {
			m.state = reportStateResult
			m.err = result.err
			m.written = result.path
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ReportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportStateTimeframe
		m.timeframePicker.Reset()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.dir = m.form.GetString("dir")
	m.state = reportStateDownloading
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.downloadCmd())
}

func (m ReportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Created if it does not exist").
				Placeholder("./reports").
				Value(&m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reportStateDownloading:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Building sales workbook...")

	case reportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Report saved")
		return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.written))
	}

	return ""
}

// ReportFileName names the workbook after its range, or "all" when unbounded.
func ReportFileName(r client.Range) string {
	if r.Start.IsZero() {
		return "sales_all.xlsx"
	}

	return fmt.Sprintf("sales_%s_%s.xlsx", r.Start.Format("20060102"), r.End.Format("20060102"))
}

type reportSavedMsg struct {
	path string
	err  error
}

func (m ReportModel) downloadCmd() tea.Cmd {
	api, rng, dir := m.api, m.rng, m.dir

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		path, err := saveWorkbook(ctx, api, rng, dir)
		return reportSavedMsg{path: path, err: err}
	}
}

func saveWorkbook(ctx context.Context, api API, rng client.Range, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, ReportFileName(rng))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if err := api.SalesWorkbook(ctx, rng, f); err != nil {
		f.Close()
		os.Remove(path)

		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}
