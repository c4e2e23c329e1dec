package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lojf/enroll/internal/models"
)

// RosterColumns are the headings of the full roster, in display order.
var RosterColumns = []string{
	"Name", "Email", "Phone", "Age", "Gender", "DOB",
	"Nationality", "Qualification", "Course", "Percentage",
}

const MsgNoStudents = "No students enrolled yet."

// Reader is the read side of the store.
type Reader interface {
	FetchAll(ctx context.Context) ([]models.Student, error)
	FetchTopN(ctx context.Context, n int) ([]models.Student, error)
	Find(ctx context.Context, id uint) (*models.Student, error)
}

// Reports renders the roster and leaderboard views.
type Reports struct {
	store Reader
}

func NewReports(store Reader) *Reports {
	return &Reports{store: store}
}

// RosterView is the full listing. When Empty is set, Message should be
// shown instead of a table.
type RosterView struct {
	Columns  []string
	Rows     [][]string
	Students []models.Student
	Empty    bool
	Message  string
}

func (r *Reports) Roster(ctx context.Context) (*RosterView, error) {
	all, err := r.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if len(all) == 0 {
		return &RosterView{Columns: RosterColumns, Empty: true, Message: MsgNoStudents}, nil
	}
	rows := make([][]string, 0, len(all))
	for _, s := range all {
		rows = append(rows, RosterRow(s))
	}
	return &RosterView{Columns: RosterColumns, Rows: rows, Students: all}, nil
}

// RosterRow lays out a student under RosterColumns.
func RosterRow(s models.Student) []string {
	return []string{
		s.Name, s.Email, s.Phone, s.Age, s.Gender, s.DOB,
		s.Nationality, s.Qualification, s.Course, FormatPercentage(s.Percentage),
	}
}

// Leaderboard is the top-N listing by percentage.
type Leaderboard struct {
	Size     int
	Students []models.Student
}

func (r *Reports) Leaderboard(ctx context.Context, n int) (*Leaderboard, error) {
	top, err := r.store.FetchTopN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return &Leaderboard{Size: n, Students: top}, nil
}

// Lines returns one "<name>: <percentage>%" line per student, best first.
func (l *Leaderboard) Lines() []string {
	out := make([]string, 0, len(l.Students))
	for _, s := range l.Students {
		out = append(out, fmt.Sprintf("%s: %s%%", s.Name, FormatPercentage(s.Percentage)))
	}
	return out
}

func (l *Leaderboard) Text() string {
	return strings.Join(l.Lines(), "\n")
}

func (l *Leaderboard) Title() string {
	return fmt.Sprintf("Top %d Students", l.Size)
}

// Body is the full notice text: a heading, a blank line, then the lines.
func (l *Leaderboard) Body() string {
	return fmt.Sprintf("Top %d students with highest percentage:\n\n%s", l.Size, l.Text())
}

// FormatPercentage renders p with at least one decimal place: 75 -> "75.0",
// 82.5 -> "82.5".
func FormatPercentage(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
