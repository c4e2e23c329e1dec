package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/lojf/enroll/internal/services"
)

type rosterPageVM struct {
	Title string
	View  *services.RosterView
	Flash *Flash
}

type topPageVM struct {
	Title       string
	Leaderboard *services.Leaderboard
}

// Roster renders GET /students.
func Roster(t *template.Template, reports *services.Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := reports.Roster(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		vm := rosterPageVM{Title: "Enrolled Students", View: view}
		if view.Empty {
			vm.Flash = &Flash{Kind: "ok", Title: "Enrolled Students", Text: view.Message}
		}
		render(w, t, "roster.tmpl", http.StatusOK, vm)
	}
}

// RosterCSV serves GET /students.csv.
func RosterCSV(reports *services.Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := reports.Roster(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("students-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)

		cw := csv.NewWriter(w)
		defer cw.Flush()
		_ = cw.Write(view.Columns)
		for _, row := range view.Rows {
			_ = cw.Write(row)
		}
	}
}

// Top renders GET /top?n=3.
func Top(t *template.Template, reports *services.Reports, size int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := size
		if v := r.URL.Query().Get("n"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid n", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		lb, err := reports.Leaderboard(r.Context(), n)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		render(w, t, "top.tmpl", http.StatusOK, topPageVM{Title: lb.Title(), Leaderboard: lb})
	}
}

// render buffers the page; a template error becomes a 500.
func render(w http.ResponseWriter, t *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
