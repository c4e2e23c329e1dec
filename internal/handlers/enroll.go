package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/lojf/enroll/internal/config"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
)

type formField struct {
	Name    string
	Label   string
	Value   string
	Width   int
	Options []string // non-empty renders a datalist, like an editable combobox
	Invalid bool
}

type enrollPageVM struct {
	Title       string
	Fields      []formField
	Flash       *Flash
	Leaderboard *services.Leaderboard
	Milestone   string
	ReceiptCode string
	StudentID   uint
}

func buildFields(cfg config.FormConfig, sub models.Submission, badField string) []formField {
	out := make([]formField, 0, len(models.FieldOrder))
	for _, name := range models.FieldOrder {
		f := formField{
			Name:    name,
			Label:   models.FieldLabels[name],
			Value:   sub.Get(name),
			Width:   cfg.Width(name),
			Invalid: name == badField,
		}
		switch name {
		case models.FieldGender:
			f.Options = models.Genders
		case models.FieldCourse:
			f.Options = models.Courses
		}
		out = append(out, f)
	}
	return out
}

// EnrollForm renders the empty enrollment form (GET /).
func EnrollForm(t *template.Template, cfg config.FormConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, t, "enroll.tmpl", http.StatusOK, enrollPageVM{
			Title:  cfg.Title,
			Fields: buildFields(cfg, models.Submission{}, ""),
		})
	}
}

// EnrollSubmit handles POST /enroll. Rejections re-render the form with the
// typed values; a success renders a cleared form.
func EnrollSubmit(t *template.Template, e *services.Enroller, cfg config.FormConfig, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		vals := make([]string, 0, len(models.FieldOrder))
		for _, name := range models.FieldOrder {
			vals = append(vals, r.PostFormValue(name))
		}
		sub := models.SubmissionFromFields(vals)

		out, err := e.Submit(r.Context(), sub)
		if err != nil {
			flash, status := errorFlash(err)
			if status >= http.StatusInternalServerError {
				log.Error("enrollment failed", zap.Error(err))
			}
			render(w, t, "enroll.tmpl", status, enrollPageVM{
				Title:  cfg.Title,
				Fields: buildFields(cfg, sub, errorField(err)),
				Flash:  flash,
			})
			return
		}

		vm := enrollPageVM{
			Title:       cfg.Title,
			Fields:      buildFields(cfg, models.Submission{}, ""),
			Flash:       &Flash{Kind: "ok", Title: "Enrollment Successful", Text: okText["enrolled"]},
			Leaderboard: out.Leaderboard,
			ReceiptCode: ReceiptCode(out.Student.ID),
			StudentID:   out.Student.ID,
		}
		if out.Leaderboard != nil {
			vm.Milestone = services.MilestoneText(out.Total, out.Leaderboard.Size)
		}
		render(w, t, "enroll.tmpl", http.StatusOK, vm)
	}
}
