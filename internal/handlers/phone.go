package handlers

import (
	"net/http"

	"github.com/lojf/enroll/internal/services"
)

// PhoneCheck is the keystroke hook for form clients:
// GET /validate/phone?value=98765 answers 204 when the proposed value is
// acceptable and 422 otherwise.
func PhoneCheck(w http.ResponseWriter, r *http.Request) {
	if !services.ValidatePhone(r.URL.Query().Get("value")) {
		http.Error(w, services.MsgInvalidPhone, http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
