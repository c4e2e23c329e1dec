package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lojf/enroll/internal/config"
	"github.com/lojf/enroll/internal/handlers"
	"github.com/lojf/enroll/internal/services"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Deps is everything the HTTP surface needs. The store handle is shared with
// the workflow; nothing here is global.
type Deps struct {
	Store    services.Gateway
	Enroller *services.Enroller
	Reports  *services.Reports
	Form     config.FormConfig
	TopSize  int
	Log      *zap.Logger
}

func Router(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.TopSize < 1 {
		d.TopSize = services.DefaultLeaderboardSize
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Log))
	r.Use(middleware.Recoverer)

	tmpl := mustParseTemplates()

	r.Get("/healthz", handlers.Health(d.Store))

	// Enrollment form
	r.Get("/", handlers.EnrollForm(tmpl, d.Form))
	r.Post("/enroll", handlers.EnrollSubmit(tmpl, d.Enroller, d.Form, d.Log))
	r.Get("/validate/phone", handlers.PhoneCheck)

	// Reports
	r.Get("/students", handlers.Roster(tmpl, d.Reports))
	r.Get("/students.csv", handlers.RosterCSV(d.Reports))
	r.Get("/students/{id}/qr.png", handlers.QR(d.Store))
	r.Get("/top", handlers.Top(tmpl, d.Reports, d.TopSize))

	return r
}

func mustParseTemplates() *template.Template {
	funcs := template.FuncMap{
		"year": func() string { return time.Now().Format("2006") },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
