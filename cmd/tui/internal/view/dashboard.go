package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

const topItemsLimit = 10

type dashboardState int

const (
	dashboardStateTimeframe dashboardState = iota
	dashboardStateLoading
	dashboardStateReady
)

// DashboardModel shows the rollup totals for a branch over a chosen range.
type DashboardModel struct {
	CommonModel
	api      API
	branchID int64

	state           dashboardState
	timeframePicker TimeframePicker
	spinner         spinner.Model
	rng             client.Range

	summary analytics.Summary
	daily   table.Model
	top     table.Model
	err     error
}

func NewDashboardModel(api API, branchID int64) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		api:             api,
		branchID:        branchID,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		spinner:         s,
		daily: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Sales", Width: 14},
			{Title: "Orders", Width: 8},
			{Title: "Items", Width: 8},
		}),
		top: newTable([]table.Column{
			{Title: "Menu", Width: 8},
			{Title: "Sales", Width: 14},
			{Title: "Items", Width: 8},
		}),
	}
}

// WithClock replaces the clock the timeframe presets are resolved against.
func (m DashboardModel) WithClock(now func() time.Time) DashboardModel {
	m.timeframePicker = m.timeframePicker.WithClock(now)
	return m
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m DashboardModel) Title() string { return "Sales Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateReady {
		return "Esc: back | t: timeframe | r: refresh"
	}

	return "Esc: back | Enter: select"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.rng = client.Range{BranchID: m.branchID, Start: msg.Start, End: msg.End}
		m.state = dashboardStateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case dashboardLoadedMsg:
		m.state = dashboardStateReady
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
			m.daily.SetRows(dailyRows(msg.daily))
			m.top.SetRows(topRows(msg.top))
		}
		return m, nil
	}

	switch m.state {
	case dashboardStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
		return m, cmd

	case dashboardStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboardStateReady:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "t":
				m.state = dashboardStateTimeframe
				m.timeframePicker.Reset()
				return m, nil
			case "r":
				m.state = dashboardStateLoading
				return m, tea.Batch(m.spinner.Tick, m.loadCmd())
			}
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Loading sales...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	card := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render("Sales\n"+activeStyle(FormatAmount(m.summary.TotalSales))),
		card.Render("Orders\n"+activeStyle(FormatAmount(m.summary.TransactionCount))),
		card.Render("Items\n"+activeStyle(FormatAmount(m.summary.ItemsSold))),
	)

	tables := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(2).Render("Daily\n"+m.daily.View()),
		"Top items\n"+m.top.View(),
	)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.rangeLabel(),
		"",
		cards,
		"",
		tables,
	))
}

func (m DashboardModel) rangeLabel() string {
	branch := "all branches"
	if m.rng.BranchID > 0 {
		branch = "branch " + strconv.FormatInt(m.rng.BranchID, 10)
	}

	if m.rng.Start.IsZero() {
		return fmt.Sprintf("All time, %s", branch)
	}

	return fmt.Sprintf("%s to %s, %s", FormatDate(m.rng.Start), FormatDate(m.rng.End), branch)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func dailyRows(days []analytics.DailyRow) []table.Row {
	rows := make([]table.Row, 0, len(days))
	for _, d := range days {
		rows = append(rows, table.Row{
			FormatDate(d.BusinessDate),
			FormatAmount(d.TotalSales),
			FormatAmount(d.TransactionCount),
			FormatAmount(d.ItemsSold),
		})
	}

	return rows
}

func topRows(items []analytics.TopItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{
			strconv.FormatInt(it.MenuID, 10),
			FormatAmount(it.TotalSales),
			FormatAmount(it.ItemsSold),
		})
	}

	return rows
}

type dashboardLoadedMsg struct {
	summary analytics.Summary
	daily   []analytics.DailyRow
	top     []analytics.TopItem
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	api, rng := m.api, m.rng

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		var msg dashboardLoadedMsg

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			s, err := api.DailySummary(ctx, rng)
			if err != nil {
				return fmt.Errorf("loading summary: %w", err)
			}

			msg.summary = *s
			return nil
		})

		g.Go(func() error {
			var err error
			if msg.daily, err = api.Daily(ctx, rng); err != nil {
				return fmt.Errorf("loading daily sales: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			var err error
			if msg.top, err = api.TopItems(ctx, rng, topItemsLimit); err != nil {
				return fmt.Errorf("loading top items: %w", err)
			}

			return nil
		})

		msg.err = g.Wait()

		return msg
	}
}
