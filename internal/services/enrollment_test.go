package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/models"
)

func TestSubmit_Alice(t *testing.T) {
	st := openTestStore(t)
	rec := &events.Recorder{}
	e := NewEnroller(st, WithNotifier(rec))

	out, err := e.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, uint(1), out.Student.ID)
	assert.Equal(t, int64(1), out.Total)
	assert.Nil(t, out.Leaderboard)
	assert.Equal(t, []events.Kind{events.KindSuccess}, rec.Kinds())
	assert.Equal(t, "You have successfully enrolled in the course.", rec.Notices()[0].Text)

	all, err := st.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, 75.0, all[0].Percentage)
}

func TestSubmit_AnyBlankFieldRejected(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st)

	for i, field := range models.FieldOrder {
		vals := validSubmission().Fields()
		vals[i] = ""
		_, err := e.Submit(context.Background(), models.SubmissionFromFields(vals))
		assert.ErrorIs(t, err, apperr.ErrMissingField, field)
		assert.Equal(t, MsgMissingField, apperr.Message(err), field)
	}
	assert.Equal(t, int64(0), rowCount(t, st))
}

func TestSubmit_Ineligible(t *testing.T) {
	st := openTestStore(t)
	rec := &events.Recorder{}
	e := NewEnroller(st, WithNotifier(rec))

	for _, pct := range []string{"55", "59.99", "0", "-10"} {
		sub := validSubmission()
		sub.Percentage = pct
		_, err := e.Submit(context.Background(), sub)
		assert.ErrorIs(t, err, apperr.ErrIneligible, pct)
	}
	assert.Equal(t, int64(0), rowCount(t, st))
	assert.Equal(t, MsgIneligible, rec.Notices()[0].Text)
}

func TestSubmit_InvalidNumber(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st)

	sub := validSubmission()
	sub.Percentage = "seventy"
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperr.ErrInvalidNumber)
	assert.Equal(t, int64(0), rowCount(t, st))
}

func TestSubmit_InvalidPhone(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st)

	sub := validSubmission()
	sub.Phone = "98-7654"
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperr.ErrInvalidPhone)
	assert.Equal(t, int64(0), rowCount(t, st))
}

// A bad phone is reported before eligibility is looked at.
func TestSubmit_InvalidPhoneBeforeIneligible(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st)

	sub := validSubmission()
	sub.Phone = "98a"
	sub.Percentage = "55"
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperr.ErrInvalidPhone)
	assert.NotErrorIs(t, err, apperr.ErrIneligible)
	assert.Equal(t, int64(0), rowCount(t, st))
}

func TestSubmit_HexPercentageRejected(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st)

	sub := validSubmission()
	sub.Percentage = "0x50p0"
	_, err := e.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, apperr.ErrInvalidNumber)
	assert.Equal(t, int64(0), rowCount(t, st))
}

func TestSubmit_EachEligibleAddsOneRow(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st, WithMilestone(0))

	for i, pct := range []string{"60", "60.0", "99.5", "100", " 75 "} {
		sub := validSubmission()
		sub.Percentage = pct
		sub.Name = " " // whitespace is a value
		out, err := e.Submit(context.Background(), sub)
		require.NoError(t, err, pct)
		assert.Equal(t, int64(i+1), out.Total)
		assert.Equal(t, int64(i+1), rowCount(t, st))
	}
}

// TestSubmit_MilestoneOnlyAtEight drives ten enrollments and expects the
// leaderboard exactly once, on the eighth.
func TestSubmit_MilestoneOnlyAtEight(t *testing.T) {
	st := openTestStore(t)
	rec := &events.Recorder{}
	e := NewEnroller(st, WithNotifier(rec))

	pcts := []string{"70", "95", "61", "88", "95", "72", "90", "65", "99", "100"}
	for i, p := range pcts {
		sub := validSubmission()
		sub.Name = fmt.Sprintf("S%d", i+1)
		sub.Percentage = p
		out, err := e.Submit(context.Background(), sub)
		require.NoError(t, err)

		if i+1 == 8 {
			require.NotNil(t, out.Leaderboard, "8th enrollment")
			assert.Equal(t, "S2: 95.0%\nS5: 95.0%\nS7: 90.0%", out.Leaderboard.Text())
		} else {
			assert.Nil(t, out.Leaderboard, "enrollment %d", i+1)
		}
	}

	var milestones, reports int
	for _, n := range rec.Notices() {
		switch n.Kind {
		case events.KindMilestone:
			milestones++
			assert.Equal(t, "8 entries have been entered. Showing top 3 students with highest percentage.", n.Text)
		case events.KindReport:
			reports++
			assert.Equal(t, "Top 3 Students", n.Title)
		}
	}
	assert.Equal(t, 1, milestones)
	assert.Equal(t, 1, reports)
}

func TestSubmit_RejectionsDoNotAdvanceMilestone(t *testing.T) {
	st := openTestStore(t)
	e := NewEnroller(st, WithMilestone(2))

	_, err := e.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	bad := validSubmission()
	bad.Percentage = "10"
	_, err = e.Submit(context.Background(), bad)
	require.Error(t, err)

	out, err := e.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	require.NotNil(t, out.Leaderboard)
	assert.Len(t, out.Leaderboard.Students, 2)
}

type failingStore struct {
	*fakeReader
	insertErr error
	countErr  error
	inserted  int
}

type fakeReader struct{}

func (fakeReader) FetchAll(context.Context) ([]models.Student, error) { return nil, nil }
func (fakeReader) FetchTopN(context.Context, int) ([]models.Student, error) {
	return []models.Student{}, nil
}
func (fakeReader) Find(context.Context, uint) (*models.Student, error) { return nil, nil }

func (f *failingStore) Insert(_ context.Context, s *models.Student) (uint, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted++
	s.ID = uint(f.inserted)
	return s.ID, nil
}

func (f *failingStore) Count(context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(f.inserted), nil
}

func TestSubmit_WriteError(t *testing.T) {
	fs := &failingStore{fakeReader: &fakeReader{}, insertErr: errors.New("disk I/O error")}
	rec := &events.Recorder{}
	e := NewEnroller(fs, WithNotifier(rec))

	_, err := e.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, apperr.ErrWrite)
	assert.False(t, apperr.IsFatal(err))
	assert.Equal(t, []events.Kind{events.KindError}, rec.Kinds())
	assert.Equal(t, "Database Error", rec.Notices()[0].Title)
}

func TestSubmit_CountFailureStillSucceeds(t *testing.T) {
	fs := &failingStore{fakeReader: &fakeReader{}, countErr: errors.New("busy")}
	e := NewEnroller(fs, WithMilestone(1))

	out, err := e.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, 1, fs.inserted)
	assert.Nil(t, out.Leaderboard)
}
