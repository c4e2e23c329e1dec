package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
)

var receiptRE = regexp.MustCompile(`^ENR-[0-9]{6}$`)

func TestReceiptCode_Format(t *testing.T) {
	for _, id := range []uint{1, 42, 999999} {
		code := ReceiptCode(id)
		if !receiptRE.MatchString(code) {
			t.Errorf("ReceiptCode(%d) = %q, want ENR-NNNNNN", id, code)
		}
	}
	if got := ReceiptCode(7); got != "ENR-000007" {
		t.Errorf("ReceiptCode(7) = %q", got)
	}
}

// TestErrorFlash_Status checks the HTTP status chosen for each error kind.
func TestErrorFlash_Status(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"missing", apperr.FieldError("t", apperr.ErrMissingField, models.FieldEmail, services.MsgMissingField), http.StatusUnprocessableEntity, "Error"},
		{"number", apperr.New("t", apperr.ErrInvalidNumber, services.MsgInvalidNumber), http.StatusUnprocessableEntity, "Error"},
		{"phone", apperr.New("t", apperr.ErrInvalidPhone, services.MsgInvalidPhone), http.StatusUnprocessableEntity, "Error"},
		{"ineligible", apperr.New("t", apperr.ErrIneligible, services.MsgIneligible), http.StatusUnprocessableEntity, "Error"},
		{"write", apperr.Wrap("t", apperr.ErrWrite, services.MsgWriteFailed, errors.New("disk full")), http.StatusServiceUnavailable, "Database Error"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, status := errorFlash(tc.err)
			if status != tc.status {
				t.Errorf("status = %d, want %d", status, tc.status)
			}
			if f.Title != tc.title {
				t.Errorf("title = %q, want %q", f.Title, tc.title)
			}
			if f.Kind != "error" {
				t.Errorf("kind = %q", f.Kind)
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	err := apperr.FieldError("t", apperr.ErrMissingField, models.FieldEmail, services.MsgMissingField)
	if got := errorField(err); got != models.FieldEmail {
		t.Errorf("errorField = %q", got)
	}
	if got := errorField(errors.New("plain")); got != "" {
		t.Errorf("errorField(plain) = %q", got)
	}
}
