package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Timeframe is a preset business date range.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeYesterday
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = map[Timeframe]string{
	TimeframeToday:     "Today",
	TimeframeYesterday: "Yesterday",
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if label, ok := timeframeLabels[t]; ok {
		return label
	}

	return "Unknown"
}

// Range resolves a preset against now, which must already be in the business
// zone (see BusinessClock). Weeks start on Monday. Both ends are business
// dates at midnight UTC, matching how the rollups key their rows. All and
// Custom resolve to zero values.
func (t Timeframe) Range(now time.Time) (time.Time, time.Time) {
	today := businessDate(now)

	sinceMonday := (int(today.Weekday()) + 6) % 7
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch t {
	case TimeframeToday:
		return today, today
	case TimeframeYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y
	case TimeframeThisWeek:
		return today.AddDate(0, 0, -sinceMonday), today
	case TimeframeLastWeek:
		end := today.AddDate(0, 0, -sinceMonday-1)
		return end.AddDate(0, 0, -6), end
	case TimeframeThisMonth:
		return monthStart, today
	case TimeframeLastMonth:
		start := monthStart.AddDate(0, -1, 0)
		return start, monthStart.AddDate(0, 0, -1)
	}

	return time.Time{}, time.Time{}
}

// BusinessClock reads now in the zone offset from UTC by offset, so the
// wall clock date is the business date.
func BusinessClock(now func() time.Time, offset time.Duration) func() time.Time {
	zone := time.FixedZone("business", int(offset.Seconds()))
	return func() time.Time { return now().In(zone) }
}

func businessDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TimeframeSelectedMsg carries the chosen range. Start and End are zero when
// All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// TimeframePicker lets a view ask for a business date range before loading.
type TimeframePicker struct {
	custom   bool
	selected Timeframe
	minFrame Timeframe
	now      func() time.Time

	// inputs holds the start and end date fields of a custom range.
	inputs []textinput.Model
	focus  int

	err error
}

// NewTimeframePicker offers minFrame and every preset after it.
func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	inputs := make([]textinput.Model, 2)
	for i, prompt := range []string{"From: ", "To:   "} {
		in := textinput.New()
		in.Placeholder = time.DateOnly
		in.CharLimit = len(time.DateOnly)
		in.Width = len(time.DateOnly) + 2
		in.Prompt = prompt
		inputs[i] = in
	}

	return TimeframePicker{
		selected: minFrame,
		minFrame: minFrame,
		now:      time.Now,
		inputs:   inputs,
	}
}

// WithClock replaces the clock presets are resolved against.
func (m TimeframePicker) WithClock(now func() time.Time) TimeframePicker {
	m.now = now
	return m
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	switch {
	case !m.custom && isKey:
		return m.selectPreset(keyMsg)
	case m.custom && isKey:
		if next, cmd, handled := m.customKey(keyMsg); handled {
			return next, cmd
		}
	}

	if !m.custom {
		return m, nil
	}

	// Typing and cursor blinks go to the focused field only.
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	return m, cmd
}

func (m TimeframePicker) selectPreset(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.selected = max(m.selected-1, m.minFrame)
	case "down", "j":
		m.selected = min(m.selected+1, TimeframeCustom)
	case "enter":
		switch m.selected {
		case TimeframeCustom:
			m.custom = true
			m.err = nil
			return m, m.focusInput(0)
		case TimeframeAll:
			return m, selected(TimeframeSelectedMsg{All: true})
		}

		start, end := m.selected.Range(m.now())

		return m, selected(TimeframeSelectedMsg{Start: start, End: end})
	}

	return m, nil
}

// customKey handles the keys that act on the custom range as a whole.
func (m TimeframePicker) customKey(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m, m.focusInput(1 - m.focus), true

	case "esc":
		m.custom = false
		m.err = nil
		return m, nil, true

	case "enter":
		start, end, err := m.customRange()
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil
		return m, selected(TimeframeSelectedMsg{Start: start, End: end}), true
	}

	return m, nil, false
}

func (m *TimeframePicker) focusInput(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		m.inputs[j].Blur()
	}

	m.inputs[i].Focus()

	return textinput.Blink
}

func (m TimeframePicker) customRange() (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, m.inputs[0].Value())
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from date must be YYYY-MM-DD")
	}

	end, err := time.Parse(time.DateOnly, m.inputs[1].Value())
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to date must be YYYY-MM-DD")
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("from date is after to date")
	}

	return start, end, nil
}

func selected(msg TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m TimeframePicker) View() string {
	var b strings.Builder

	if m.custom {
		b.WriteString("Custom range\n\n")
		for _, in := range m.inputs {
			b.WriteString(in.View() + "\n")
		}
		b.WriteString("\n(Enter: apply | Tab: next field | Esc: presets)")
	} else {
		b.WriteString("Timeframe\n\n")
		for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
			if tf == m.selected {
				b.WriteString(cursorStyle.Render("> "+tf.String()) + "\n")
				continue
			}

			b.WriteString("  " + tf.String() + "\n")
		}
		b.WriteString("\n(Enter: select | Esc: back)")
	}

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(m.err.Error()))
	}

	return b.String()
}

// IsSelecting is false while the custom range inputs are shown.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

func (m *TimeframePicker) Reset() {
	m.custom = false
	m.selected = m.minFrame
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}
