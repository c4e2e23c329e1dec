package handlers

import (
	"errors"
	"net/http"

	"github.com/lojf/enroll/internal/apperr"
)

type Flash struct {
	Kind  string // "ok" or "error"
	Title string
	Text  string
}

var okText = map[string]string{
	"enrolled": "You have successfully enrolled in the course.",
}

// errorFlash turns a workflow error into a flash and an HTTP status.
func errorFlash(err error) (*Flash, int) {
	f := &Flash{Kind: "error", Title: "Error", Text: apperr.Message(err)}
	switch {
	case errors.Is(err, apperr.ErrWrite):
		f.Title = "Database Error"
		return f, http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrMissingField),
		errors.Is(err, apperr.ErrInvalidNumber),
		errors.Is(err, apperr.ErrInvalidPhone),
		errors.Is(err, apperr.ErrIneligible):
		return f, http.StatusUnprocessableEntity
	default:
		f.Text = "Something went wrong."
		return f, http.StatusInternalServerError
	}
}

// errorField names the form field an error is about, if any.
func errorField(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Field
	}
	return ""
}
