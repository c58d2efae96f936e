// Package tui is the interactive front end: three filter fields over a
// live table of records.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zoobzio/sieve"
	"github.com/zoobzio/sieve/internal/demo"
	"github.com/zoobzio/sieve/internal/pipeline"
)

// Filter field indexes, in tab order.
const (
	fieldName = iota
	fieldColor
	fieldProgress
	fieldCount
)

// output is the latest view result. It is written by the view subscription,
// which only runs on the update loop.
type output struct {
	rows []sieve.Record
}

// Model is the Bubbletea model for the filtered table
type Model struct {
	ctx      context.Context
	pipeline *pipeline.Pipeline
	out      *output
	sub      sieve.Subscription
	gen      sieve.Generator

	fields   [fieldCount]textinput.Model
	focus    int
	table    table.Model
	inputErr string
	quitting bool
}

// NewModel activates the pipeline's view and builds the model around it.
// It must run before any delivery reaches the update loop.
func NewModel(ctx context.Context, p *pipeline.Pipeline) Model {
	m := Model{
		ctx:      ctx,
		pipeline: p,
		out:      &output{},
		gen:      demo.New(nil),
	}

	placeholders := [fieldCount]string{"e.g. amelia", "e.g. red", "0"}
	for i := range m.fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 40
		ti.Width = 30
		m.fields[i] = ti
	}
	m.fields[fieldProgress].CharLimit = 6

	// Show the initial filter Start will apply.
	initial := p.Filter()
	m.fields[fieldName].SetValue(initial.Name)
	m.fields[fieldColor].SetValue(initial.Color)
	if initial.MinProgress != 0 {
		m.fields[fieldProgress].SetValue(strconv.FormatFloat(initial.MinProgress, 'f', -1, 64))
	}
	m.fields[fieldName].Focus()

	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 16},
			{Title: "Progress", Width: 9},
			{Title: "Color", Width: 10},
		}),
		table.WithHeight(15),
		table.WithFocused(true),
		table.WithStyles(tableStyles()),
	)

	out := m.out
	m.sub = p.View.Activate(ctx).Subscribe(func(rows []sieve.Record) {
		out.rows = rows
	})
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
		m.refresh()
		return m, nil

	case tea.WindowSizeMsg:
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab", "shift+tab":
			step := 1
			if msg.String() == "shift+tab" {
				step = fieldCount - 1
			}
			m.fields[m.focus].Blur()
			m.focus = (m.focus + step) % fieldCount
			cmd := m.fields[m.focus].Focus()
			return m, cmd

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd

		case "ctrl+n":
			// Already on the update loop: append directly.
			m.pipeline.Store.Append(m.ctx, m.gen)
			m.refresh()
			return m, nil
		}

		before := m.fields[m.focus].Value()
		var cmd tea.Cmd
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
		if after := m.fields[m.focus].Value(); after != before {
			m.push(m.focus, after)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

// push offers a field's raw text to its filter input.
func (m *Model) push(field int, text string) {
	switch field {
	case fieldName:
		m.pipeline.Name.Push(text)
	case fieldColor:
		m.pipeline.Color.Push(text)
	case fieldProgress:
		v, err := parseProgress(text)
		if err != nil {
			m.inputErr = err.Error()
			return
		}
		m.inputErr = ""
		m.pipeline.MinProgress.Push(v)
	}
}

// parseProgress reads the min progress field. Empty means 0.
func parseProgress(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("min progress %q is not a number", text)
	}
	return v, nil
}

// refresh copies the latest view output into the table.
func (m *Model) refresh() {
	rows := make([]table.Row, len(m.out.rows))
	for i, r := range m.out.rows {
		rows[i] = table.Row{r.ID, r.Name, r.Progress, r.Color}
	}
	m.table.SetRows(rows)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("sieve"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Name", "Color", "Min progress"}
	for i, f := range m.fields {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusedLabelStyle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	if m.inputErr != "" {
		b.WriteString(warnStyle.Render(m.inputErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	status := fmt.Sprintf("showing %d of %d records", len(m.out.rows), m.pipeline.Store.Current().Len())
	if skipped := len(m.pipeline.View.Skipped()); skipped > 0 {
		status += fmt.Sprintf(" · %d skipped", skipped)
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	b.WriteString(tableBorder.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field · ↑/↓: scroll · ctrl+n: add record · esc: quit"))
	b.WriteString("\n")

	return b.String()
}

// Close releases the view output subscription.
func (m Model) Close() {
	m.sub.Unsubscribe()
}
