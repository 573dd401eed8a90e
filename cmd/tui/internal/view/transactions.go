package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
)

const transactionsLimit = 200

type txState int

const (
	txStateBrowse txState = iota
	txStateEdit
	txStateConfirm
)

var completionLabels = []string{"All", "Open", "Completed"}

// TransactionsModel browses a branch's ledger and completes open sales.
type TransactionsModel struct {
	CommonModel
	api      API
	branchID int64
	now      func() time.Time

	state txState
	table table.Model
	txs   []client.Transaction
	form  *huh.Form

	completionIdx int
	timeframeIdx  int

	loading bool
	err     error
	status  string

	formCustomer string
	formTable    string
	formDiscount string
	confirmed    bool
}

// Presets cycled with the date filter key.
var txTimeframes = []Timeframe{TimeframeToday, TimeframeThisWeek, TimeframeThisMonth, TimeframeAll}

func NewTransactionsModel(api API, branchID int64) TransactionsModel {
	t := newTable([]table.Column{
		{Title: "Date", Width: 17},
		{Title: "Branch", Width: 7},
		{Title: "Table", Width: 6},
		{Title: "Customer", Width: 20},
		{Title: "Total", Width: 12},
		{Title: "Payment", Width: 9},
		{Title: "Completed", Width: 10},
	})
	t.SetHeight(15)
	t.Focus()

	return TransactionsModel{
		api:      api,
		branchID: branchID,
		now:      time.Now,
		table:    t,
		loading:  true,
	}
}

// WithClock replaces the clock the date presets are resolved against.
func (m TransactionsModel) WithClock(now func() time.Time) TransactionsModel {
	m.now = now
	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateEdit:
		return "Navigate form | Esc: cancel"
	case txStateConfirm:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | c: complete | e: edit | s: state filter | d: date filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.txs = msg.txs
			m.table.SetRows(transactionRows(msg.txs))
		}
		return m, nil

	case txCompletedMsg:
		m.status = completionStatus(msg)
		m.resetForm()
		return m, m.loadCmd()

	case txSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.resetForm()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateEdit, txStateConfirm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.completionIdx = (m.completionIdx + 1) % len(completionLabels)
			m.loading = true
			return m, m.loadCmd()
		case "d":
			m.timeframeIdx = (m.timeframeIdx + 1) % len(txTimeframes)
			m.loading = true
			return m, m.loadCmd()
		case "c":
			return m.enterConfirm()
		case "e":
			return m.enterEdit()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TransactionsModel) selected() (client.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return client.Transaction{}, false
	}

	return m.txs[idx], true
}

func (m TransactionsModel) enterConfirm() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.confirmed = true
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Complete transaction of %s?", FormatAmount(tx.Total))).
				Description("Completed sales are added to the rollups and can no longer be edited.").
				Affirmative("Complete").
				Negative("Cancel").
				Value(&m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateConfirm
	m.table.Blur()
	return m, m.form.Init()
}

func (m TransactionsModel) enterEdit() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	if tx.Completed {
		m.status = "Completed transactions cannot be edited"
		return m, nil
	}

	m.formCustomer = tx.CustomerName
	m.formTable = tx.TableNumber
	m.formDiscount = strconv.FormatInt(tx.Discount, 10)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("customer").
				Title("Customer").
				Value(&m.formCustomer),

			huh.NewInput().
				Key("table").
				Title("Table").
				Value(&m.formTable),

			huh.NewInput().
				Key("discount").
				Title("Discount").
				Value(&m.formDiscount).
				Validate(validateDiscount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func validateDiscount(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return errors.New("discount must be a whole, non-negative amount")
	}

	return nil
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.resetForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
	case huh.StateAborted:
		m.resetForm()
		return m, nil
	default:
		return m, cmd
	}

	tx, ok := m.selected()
	if !ok {
		m.resetForm()
		return m, nil
	}

	if m.state == txStateConfirm {
		if !m.form.GetBool("confirm") {
			m.resetForm()
			return m, nil
		}

		return m, m.completeCmd(tx)
	}

	return m, m.saveCmd(tx)
}

func (m *TransactionsModel) resetForm() {
	m.state = txStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] State: %s | [d] Date: %s",
		activeStyle(completionLabels[m.completionIdx]),
		activeStyle(txTimeframes[m.timeframeIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != txStateBrowse && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// filter builds the list query for the active state and date presets.
func (m TransactionsModel) filter() client.TransactionFilter {
	f := client.TransactionFilter{Limit: transactionsLimit}
	f.BranchID = m.branchID

	switch m.completionIdx {
	case 1:
		f.Completed = new(false)
	case 2:
		f.Completed = new(true)
	}

	f.Start, f.End = txTimeframes[m.timeframeIdx].Range(m.now())

	return f
}

func transactionRows(txs []client.Transaction) []table.Row {
	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		completed := "no"
		if tx.Completed {
			completed = "yes"
		}

		rows = append(rows, table.Row{
			tx.Date.Format("2006-01-02 15:04"),
			strconv.FormatInt(tx.BranchID, 10),
			tx.TableNumber,
			tx.CustomerName,
			FormatAmount(tx.Total),
			tx.PaymentMethod,
			completed,
		})
	}

	return rows
}

func completionStatus(msg txCompletedMsg) string {
	switch {
	case msg.err != nil && client.IsRetryable(msg.err):
		return fmt.Sprintf("Completion failed, nothing was recorded. Try again: %v", msg.err)
	case msg.err != nil:
		return fmt.Sprintf("Error completing: %v", msg.err)
	case msg.result.AlreadyCompleted:
		return "Transaction was already completed"
	}

	return fmt.Sprintf("Completed for business date %s", msg.result.BusinessDate)
}

type txLoadedMsg struct {
	txs []client.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	api, f := m.api, m.filter()

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		txs, err := api.Transactions(ctx, f)
		return txLoadedMsg{txs: txs, err: err}
	}
}

type txCompletedMsg struct {
	result *client.Completion
	err    error
}

func (m TransactionsModel) completeCmd(tx client.Transaction) tea.Cmd {
	api := m.api

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		res, err := api.Complete(ctx, tx.ID)
		return txCompletedMsg{result: res, err: err}
	}
}

type txSavedMsg struct {
	err error
}

func (m TransactionsModel) saveCmd(tx client.Transaction) tea.Cmd {
	api := m.api
	// Values are read from the form since it holds pointers into an earlier copy of m.
	customer, tableNo := m.form.GetString("customer"), m.form.GetString("table")

	discount, err := strconv.ParseInt(strings.TrimSpace(m.form.GetString("discount")), 10, 64)
	if err != nil {
		return func() tea.Msg { return txSavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		_, err := api.UpdateTransaction(ctx, tx.ID, client.UpdateTransaction{
			CustomerName: &customer,
			TableNumber:  &tableNo,
			Discount:     &discount,
		})

		return txSavedMsg{err: err}
	}
}
