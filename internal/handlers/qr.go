package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
)

// ReceiptCode is the enrollment reference printed on receipts, e.g. ENR-000042.
func ReceiptCode(id uint) string {
	return fmt.Sprintf("ENR-%06d", id)
}

// receiptText is what the QR code encodes.
func receiptText(s *models.Student) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s%%", ReceiptCode(s.ID), s.Name, s.Course, services.FormatPercentage(s.Percentage))
}

// QR serves GET /students/{id}/qr.png.
func QR(store services.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id == 0 {
			http.NotFound(w, r)
			return
		}
		st, err := store.Find(r.Context(), uint(id))
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		png, err := qrcode.Encode(receiptText(st), qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "failed to generate qr", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
