package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojf/enroll/internal/config"
	"github.com/lojf/enroll/internal/db"
	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
)

func newTestModel(t *testing.T, milestone int) (Model, *db.Store) {
	t.Helper()
	st, err := db.Open(filepath.Join(t.TempDir(), "enrollment.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.EnsureSchema(context.Background()))

	e := services.NewEnroller(st, services.WithMilestone(milestone))
	return New(context.Background(), e, services.NewReports(st), config.Default().Form), st
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.Msg { return tea.KeyMsg{Type: k} }

// fill types vals into the form starting at the first field.
func fill(m Model, vals ...string) Model {
	for i, v := range vals {
		if v != "" {
			m = send(m, typeText(v))
		}
		if i < len(vals)-1 {
			m = send(m, key(tea.KeyTab))
		}
	}
	return m
}

var alice = []string{"Alice", "a@x.com", "9876543210", "21", "Female", "2000-01-01", "IN", "BSc", "Data Science", "75"}

func TestModel_FocusWraps(t *testing.T) {
	m, _ := newTestModel(t, 8)
	assert.Equal(t, 0, m.focus)

	m = send(m, key(tea.KeyShiftTab))
	assert.Equal(t, len(models.FieldOrder)-1, m.focus)

	m = send(m, key(tea.KeyTab))
	assert.Equal(t, 0, m.focus)

	m = send(m, key(tea.KeyEnter))
	assert.Equal(t, 1, m.focus, "enter advances to the next field")
}

func TestModel_PhoneFilter(t *testing.T) {
	m, _ := newTestModel(t, 8)
	m = send(m, key(tea.KeyTab), key(tea.KeyTab))
	require.Equal(t, models.FieldPhone, models.FieldOrder[m.focus])

	m = send(m, typeText("98"), typeText("a"), typeText("7"))
	assert.Equal(t, "987", m.Values()[2])

	m = send(m, typeText("6543210"), typeText("1"))
	assert.Equal(t, "9876543210", m.Values()[2], "eleventh digit is refused")

	m = send(m, key(tea.KeyBackspace))
	assert.Equal(t, "987654321", m.Values()[2])
}

func TestModel_SubmitSuccessClearsForm(t *testing.T) {
	m, st := newTestModel(t, 8)
	m = fill(m, alice...)
	m = send(m, key(tea.KeyEnter))

	require.NotNil(t, m.status)
	assert.Equal(t, events.KindSuccess, m.status.Kind)
	assert.Equal(t, "You have successfully enrolled in the course.", m.status.Text)
	for _, v := range m.Values() {
		assert.Empty(t, v)
	}
	assert.Equal(t, 0, m.focus)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestModel_IneligibleKeepsValues(t *testing.T) {
	m, st := newTestModel(t, 8)
	vals := append([]string(nil), alice...)
	vals[9] = "55"
	m = fill(m, vals...)
	m = send(m, key(tea.KeyCtrlS))

	require.NotNil(t, m.status)
	assert.Equal(t, events.KindError, m.status.Kind)
	assert.Equal(t, services.MsgIneligible, m.status.Text)
	assert.Equal(t, vals, m.Values())

	n, _ := st.Count(context.Background())
	assert.Zero(t, n)
}

func TestModel_MissingFieldFocusesIt(t *testing.T) {
	m, _ := newTestModel(t, 8)
	vals := append([]string(nil), alice...)
	vals[3] = ""
	m = fill(m, vals...)
	m = send(m, key(tea.KeyCtrlS))

	require.NotNil(t, m.status)
	assert.Equal(t, services.MsgMissingField, m.status.Text)
	assert.Equal(t, models.FieldAge, models.FieldOrder[m.focus])
}

func TestModel_MilestonePopup(t *testing.T) {
	m, _ := newTestModel(t, 2)

	bob := append([]string(nil), alice...)
	bob[0], bob[9] = "Bob", "91"
	m = send(fill(m, bob...), key(tea.KeyCtrlS))
	assert.Empty(t, m.popup)

	m = send(fill(m, alice...), key(tea.KeyCtrlS))
	require.Len(t, m.popup, 2)
	assert.Equal(t, "2 entries have been entered. Showing top 3 students with highest percentage.", m.popup[0].Text)
	assert.Equal(t, "Top 3 Students", m.popup[1].Title)
	assert.True(t, strings.HasSuffix(m.popup[1].Text, "Bob: 91.0%\nAlice: 75.0%"))
	assert.Contains(t, m.View(), "Enrollment Complete")

	m = send(m, key(tea.KeyEsc))
	assert.Empty(t, m.popup)
}

func TestModel_Roster(t *testing.T) {
	m, _ := newTestModel(t, 8)

	m = send(m, key(tea.KeyCtrlR))
	assert.Equal(t, modeForm, m.mode)
	require.NotNil(t, m.status)
	assert.Equal(t, services.MsgNoStudents, m.status.Text)

	m = send(fill(m, alice...), key(tea.KeyCtrlS))
	m = send(m, key(tea.KeyCtrlR))
	require.Equal(t, modeRoster, m.mode)
	assert.Len(t, m.roster.Rows(), 1)
	assert.Contains(t, m.View(), "Alice")

	m = send(m, key(tea.KeyEsc))
	assert.Equal(t, modeForm, m.mode)
}
