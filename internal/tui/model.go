// Package tui is the terminal enrollment form: ten inputs, a phone keystroke
// filter, the full roster table and the milestone leaderboard popup.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/config"
	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
)

type mode int

const (
	modeForm mode = iota
	modeRoster
)

// Model is the bubbletea model for the enrollment window.
type Model struct {
	ctx      context.Context
	enroller *services.Enroller
	reports  *services.Reports
	form     *services.Form
	title    string

	inputs []textinput.Model
	focus  int

	mode   mode
	roster table.Model

	status *events.Notice
	popup  []events.Notice

	styles Styles
}

func New(ctx context.Context, e *services.Enroller, r *services.Reports, cfg config.FormConfig) Model {
	m := Model{
		ctx:      ctx,
		enroller: e,
		reports:  r,
		form:     services.NewForm(),
		title:    cfg.Title,
		styles:   DefaultStyles(),
	}
	for _, name := range models.FieldOrder {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = cfg.Width(name)
		switch name {
		case models.FieldPhone:
			ti.CharLimit = services.MaxPhoneLen
		case models.FieldGender:
			ti.Placeholder = strings.Join(models.Genders, " / ")
		case models.FieldCourse:
			ti.Placeholder = strings.Join(models.Courses, " / ")
		case models.FieldDOB:
			ti.Placeholder = "YYYY-MM-DD"
		}
		m.inputs = append(m.inputs, ti)
	}
	m.inputs[0].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeRoster {
			var cmd tea.Cmd
			m.roster, cmd = m.roster.Update(msg)
			return m, cmd
		}
		return m.updateInput(msg)
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == modeRoster {
		switch key.String() {
		case "esc", "q":
			m.mode = modeForm
			return m, nil
		}
		var cmd tea.Cmd
		m.roster, cmd = m.roster.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "tab", "down":
		return m, m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m, m.setFocus(m.focus - 1)
	case "enter":
		if m.focus < len(m.inputs)-1 {
			return m, m.setFocus(m.focus + 1)
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		return m.showRoster()
	case "esc":
		m.popup = nil
		m.status = nil
		return m, nil
	}
	return m.updateInput(msg)
}

// updateInput feeds msg to the focused input. The form refuses values that
// fail its field rules (the phone filter), in which case the input keeps its
// previous state.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.inputs[m.focus]
	next, cmd := prev.Update(msg)
	if next.Value() != prev.Value() && !m.form.Set(models.FieldOrder[m.focus], next.Value()) {
		return m, nil
	}
	m.inputs[m.focus] = next
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.popup = nil
	out, err := m.form.Submit(m.ctx, m.enroller)
	if err != nil {
		title := "Error"
		if errors.Is(err, apperr.ErrWrite) {
			title = "Database Error"
		}
		m.status = &events.Notice{Kind: events.KindError, Title: title, Text: apperr.Message(err)}

		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Field != "" {
			for i, name := range models.FieldOrder {
				if name == ae.Field {
					return m, m.setFocus(i)
				}
			}
		}
		return m, nil
	}

	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.status = &events.Notice{
		Kind:  events.KindSuccess,
		Title: "Enrollment Successful",
		Text:  "You have successfully enrolled in the course.",
	}
	if lb := out.Leaderboard; lb != nil {
		m.popup = []events.Notice{
			{Kind: events.KindMilestone, Title: "Enrollment Complete", Text: services.MilestoneText(out.Total, lb.Size)},
			{Kind: events.KindReport, Title: lb.Title(), Text: lb.Body()},
		}
	}
	return m, m.setFocus(0)
}

func (m Model) showRoster() (tea.Model, tea.Cmd) {
	view, err := m.reports.Roster(m.ctx)
	if err != nil {
		m.status = &events.Notice{Kind: events.KindError, Title: "Database Error", Text: err.Error()}
		return m, nil
	}
	if view.Empty {
		m.status = &events.Notice{Kind: events.KindReport, Title: "Enrolled Students", Text: view.Message}
		return m, nil
	}

	cols := make([]table.Column, len(view.Columns))
	for i, c := range view.Columns {
		w := lipgloss.Width(c)
		for _, row := range view.Rows {
			if rw := lipgloss.Width(row[i]); rw > w {
				w = rw
			}
		}
		cols[i] = table.Column{Title: c, Width: w}
	}
	rows := make([]table.Row, 0, len(view.Rows))
	for _, r := range view.Rows {
		rows = append(rows, table.Row(r))
	}
	m.roster = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 15)+1),
	)
	m.mode = modeRoster
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	if m.mode == modeRoster {
		b.WriteString(m.styles.Title.Render("Enrolled Students"))
		b.WriteString("\n")
		b.WriteString(m.roster.View())
		b.WriteString(m.styles.Help.Render("↑/↓ scroll • esc back • ctrl+c quit"))
		return b.String()
	}

	for i, name := range models.FieldOrder {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.Focused
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			label.Render(models.FieldLabels[name]+":"),
			m.inputs[i].View()))
		b.WriteString("\n")
	}

	if n := m.status; n != nil {
		style := m.styles.OK
		if n.Kind == events.KindError {
			style = m.styles.Error
		}
		b.WriteString("\n")
		b.WriteString(style.Render(n.Title + ": " + n.Text))
		b.WriteString("\n")
	}
	for _, p := range m.popup {
		b.WriteString(m.styles.Popup.Render(p.Title + "\n\n" + p.Text))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("tab/↑/↓ move • enter next/enroll • ctrl+s enroll • ctrl+r show enrolled students • esc dismiss • ctrl+c quit"))
	return b.String()
}

// Values returns the current input values in form order.
func (m Model) Values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = in.Value()
	}
	return out
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	return err
}
