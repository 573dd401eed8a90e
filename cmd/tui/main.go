package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/view"
)

type config struct {
	APIURL   string        `envconfig:"TILLPOINT_API_URL" default:"http://localhost:8080"`
	Token    string        `envconfig:"TILLPOINT_TOKEN" required:"true"`
	BranchID int64         `envconfig:"TILLPOINT_BRANCH_ID" default:"0"`
	Timeout  time.Duration `envconfig:"TILLPOINT_HTTP_TIMEOUT" default:"30s"`

	// BusinessOffset must match the API's BUSINESS_UTC_OFFSET.
	BusinessOffset time.Duration `envconfig:"TILLPOINT_BUSINESS_UTC_OFFSET" default:"6h"`
}

type model struct {
	api      view.API
	branchID int64
	now      func() time.Time

	currentView View

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	reportView       view.ReportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewReport       View = 3
)

func newModel(api view.API, branchID int64, now func() time.Time) model {
	return model{
		api:         api,
		branchID:    branchID,
		now:         now,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.api, m.branchID).WithClock(m.now)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.api, m.branchID).WithClock(m.now)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.api, m.branchID).WithClock(m.now)

				return m, m.reportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		branch := "all branches"
		if m.branchID > 0 {
			branch = fmt.Sprintf("branch %d", m.branchID)
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Tillpoint (" + branch + ")\n\n" +
				"1. Sales Dashboard\n" +
				"2. Transactions\n" +
				"3. Sales Report\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewReport:
		return m.reportView.View()
	}

	return "Unknown View"
}

func main() {
	log := zap.Must(zap.NewDevelopment())
	defer log.Sync()

	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	api := client.New(cfg.APIURL, cfg.Token, cfg.Timeout)

	p := tea.NewProgram(newModel(api, cfg.BranchID, view.BusinessClock(time.Now, cfg.BusinessOffset)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("failed to run TUI", zap.Error(err))
		os.Exit(1)
	}
}
