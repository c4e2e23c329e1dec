// Package events carries workflow notifications to whichever surface is
// showing the form (terminal, HTTP page, CLI output).
package events

import (
	"sync"

	"go.uber.org/zap"
)

type Kind string

const (
	KindSuccess   Kind = "success"
	KindError     Kind = "error"
	KindMilestone Kind = "milestone"
	KindReport    Kind = "report"
)

// Notice is one message box worth of information.
type Notice struct {
	Kind  Kind
	Title string
	Text  string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})

// Recorder keeps notices in arrival order.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Kinds lists the kinds received so far.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Kind)
	}
	return out
}

// Log writes notices to a zap logger.
func Log(l *zap.Logger) Notifier {
	return NotifierFunc(func(n Notice) {
		fields := []zap.Field{zap.String("kind", string(n.Kind)), zap.String("title", n.Title)}
		if n.Kind == KindError {
			l.Warn(n.Text, fields...)
			return
		}
		l.Info(n.Text, fields...)
	})
}

// Multi fans a notice out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return NotifierFunc(func(n Notice) {
		for _, x := range ns {
			if x != nil {
				x.Notify(n)
			}
		}
	})
}
