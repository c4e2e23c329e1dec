package services

import (
	"context"

	"github.com/lojf/enroll/internal/models"
)

// State is where a Form is in the submit cycle.
type State int

const (
	Editing State = iota
	Validating
	Persisting
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Persisting:
		return "persisting"
	default:
		return "unknown"
	}
}

// Form holds the ten input values between submissions.
// A failed submission leaves the values in place; a successful one clears them.
type Form struct {
	values map[string]string
	state  State
	err    error

	// OnTransition, if set, sees every state change.
	OnTransition func(from, to State)
}

func NewForm() *Form {
	return &Form{values: make(map[string]string, len(models.FieldOrder))}
}

func (f *Form) State() State { return f.state }

// Err is the error from the last submission, nil after a success.
func (f *Form) Err() error { return f.err }

func (f *Form) Value(field string) string { return f.values[field] }

// Set replaces a field value. A phone value that fails ValidatePhone is
// refused and the previous value is kept.
func (f *Form) Set(field, value string) bool {
	if field == models.FieldPhone && !ValidatePhone(value) {
		return false
	}
	f.values[field] = value
	return true
}

// Type appends one typed character to a field, applying the phone
// keystroke filter. It serves front ends that deliver single keystrokes;
// those that hand over a whole proposed value use Set.
func (f *Form) Type(field string, r rune) bool {
	cur := f.values[field]
	if field == models.FieldPhone && !ValidatePhoneChar(r, cur) {
		return false
	}
	f.values[field] = cur + string(r)
	return true
}

// Values returns the field values in models.FieldOrder.
func (f *Form) Values() []string {
	out := make([]string, 0, len(models.FieldOrder))
	for _, name := range models.FieldOrder {
		out = append(out, f.values[name])
	}
	return out
}

func (f *Form) Submission() models.Submission {
	return models.SubmissionFromFields(f.Values())
}

// Reset clears every field.
func (f *Form) Reset() {
	for k := range f.values {
		delete(f.values, k)
	}
}

// Submit sends the current values through e. It always returns the form
// to Editing.
func (f *Form) Submit(ctx context.Context, e *Enroller) (*Outcome, error) {
	out, err := e.submit(ctx, f.Submission(), f.moveTo)
	f.err = err
	if err == nil {
		f.Reset()
	}
	f.moveTo(Editing)
	return out, err
}

func (f *Form) moveTo(s State) {
	from := f.state
	f.state = s
	if f.OnTransition != nil && from != s {
		f.OnTransition(from, s)
	}
}
