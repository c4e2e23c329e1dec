package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/models"
)

const (
	DefaultMilestone       = 8
	DefaultLeaderboardSize = 3
)

// Gateway is what the workflow needs from the store.
type Gateway interface {
	Reader
	Insert(ctx context.Context, s *models.Student) (uint, error)
	Count(ctx context.Context) (int64, error)
}

// Enroller runs the submit workflow. It is safe to share between front ends;
// submissions are serialized so the post-insert count belongs to that insert.
type Enroller struct {
	mu        sync.Mutex
	store     Gateway
	reports   *Reports
	notify    events.Notifier
	log       *zap.Logger
	milestone int
	boardSize int
}

type Option func(*Enroller)

func WithNotifier(n events.Notifier) Option { return func(e *Enroller) { e.notify = n } }

func WithLogger(l *zap.Logger) Option { return func(e *Enroller) { e.log = l } }

// WithMilestone sets the total record count that triggers the leaderboard.
// Zero disables it.
func WithMilestone(n int) Option { return func(e *Enroller) { e.milestone = n } }

func WithLeaderboardSize(n int) Option { return func(e *Enroller) { e.boardSize = n } }

func NewEnroller(store Gateway, opts ...Option) *Enroller {
	e := &Enroller{
		store:     store,
		reports:   NewReports(store),
		notify:    events.Discard,
		log:       zap.NewNop(),
		milestone: DefaultMilestone,
		boardSize: DefaultLeaderboardSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome describes a successful enrollment.
type Outcome struct {
	Student models.Student
	Total   int64
	// Leaderboard is set only when this enrollment hit the milestone.
	Leaderboard *Leaderboard
}

// Submit validates sub and, if it is eligible, stores it.
func (e *Enroller) Submit(ctx context.Context, sub models.Submission) (*Outcome, error) {
	return e.submit(ctx, sub, nil)
}

func (e *Enroller) submit(ctx context.Context, sub models.Submission, step func(State)) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	enter := func(s State) {
		if step != nil {
			step(s)
		}
	}

	enter(Validating)
	if err := CheckSubmission(sub); err != nil {
		return nil, e.fail("Error", err)
	}
	pct, err := ParsePercentage(sub.Percentage)
	if err != nil {
		return nil, e.fail("Error", err)
	}
	if !IsEligible(pct) {
		return nil, e.fail("Error", apperr.FieldError("enroll.Submit", apperr.ErrIneligible, models.FieldPercentage, MsgIneligible))
	}

	enter(Persisting)
	st := models.Student{
		Name:          sub.Name,
		Email:         sub.Email,
		Phone:         sub.Phone,
		Age:           sub.Age,
		Gender:        sub.Gender,
		DOB:           sub.DOB,
		Nationality:   sub.Nationality,
		Qualification: sub.Qualification,
		Course:        sub.Course,
		Percentage:    pct,
	}
	if _, err := e.store.Insert(ctx, &st); err != nil {
		return nil, e.fail("Database Error", apperr.Wrap("enroll.Submit", apperr.ErrWrite, MsgWriteFailed, err))
	}
	e.log.Info("student enrolled",
		zap.Uint("id", st.ID),
		zap.String("course", st.Course),
		zap.Float64("percentage", st.Percentage))
	e.notify.Notify(events.Notice{
		Kind:  events.KindSuccess,
		Title: "Enrollment Successful",
		Text:  "You have successfully enrolled in the course.",
	})

	out := &Outcome{Student: st}
	total, err := e.store.Count(ctx)
	if err != nil {
		e.log.Warn("count after insert failed; skipping milestone check", zap.Error(err))
		return out, nil
	}
	out.Total = total

	if e.milestone > 0 && total == int64(e.milestone) {
		out.Leaderboard = e.milestoneReport(ctx, total)
	}
	return out, nil
}

func (e *Enroller) milestoneReport(ctx context.Context, total int64) *Leaderboard {
	e.notify.Notify(events.Notice{
		Kind:  events.KindMilestone,
		Title: "Enrollment Complete",
		Text:  MilestoneText(total, e.boardSize),
	})
	lb, err := e.reports.Leaderboard(ctx, e.boardSize)
	if err != nil {
		e.log.Error("milestone leaderboard failed", zap.Error(err))
		return nil
	}
	e.notify.Notify(events.Notice{Kind: events.KindReport, Title: lb.Title(), Text: lb.Body()})
	return lb
}

// MilestoneText is the announcement shown when the milestone is reached.
func MilestoneText(total int64, size int) string {
	return fmt.Sprintf("%d entries have been entered. Showing top %d students with highest percentage.", total, size)
}

func (e *Enroller) fail(title string, err error) error {
	e.log.Debug("submission rejected", zap.Error(err))
	e.notify.Notify(events.Notice{Kind: events.KindError, Title: title, Text: apperr.Message(err)})
	return err
}
