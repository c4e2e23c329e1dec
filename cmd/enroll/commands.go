package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/models"
	"github.com/lojf/enroll/internal/services"
	"github.com/lojf/enroll/internal/tui"
	"github.com/lojf/enroll/internal/web"
)

func newFormCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the terminal enrollment form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runForm(cmd.Context())
		},
	}
}

func (a *app) runForm(ctx context.Context) error {
	a.log.Info("form opened", zap.String("title", a.cfg.Form.Title))
	return tui.Run(tui.New(ctx, a.enroller, a.reports, a.cfg.Form))
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the enrollment form over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			srv := &http.Server{
				Addr: addr,
				Handler: web.Router(web.Deps{
					Store:    a.store,
					Enroller: a.enroller,
					Reports:  a.reports,
					Form:     a.cfg.Form,
					TopSize:  a.cfg.Enrollment.LeaderboardSize,
					Log:      a.log,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.log.Info("enrollment server listening", zap.String("addr", addr), zap.String("db", a.cfg.DB.Path))

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	vals := make(map[string]*string, len(models.FieldOrder))
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit one enrollment from flags",
		Example: `  enroll add --name Alice --email a@x.com --phone 9876543210 --age 21 \
    --gender Female --dob 2000-01-01 --nationality IN --qualification BSc \
    --course "Data Science" --percentage 75`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make([]string, 0, len(models.FieldOrder))
			for _, name := range models.FieldOrder {
				fields = append(fields, *vals[name])
			}

			e := a.newEnroller(printNotices(cmd.OutOrStdout()))
			_, err := e.Submit(cmd.Context(), models.SubmissionFromFields(fields))
			return err
		},
	}
	for _, name := range models.FieldOrder {
		vals[name] = cmd.Flags().String(name, "", models.FieldLabels[name])
	}
	return cmd
}

// printNotices writes each notice as a titled block.
func printNotices(w io.Writer) events.Notifier {
	return events.NotifierFunc(func(n events.Notice) {
		fmt.Fprintf(w, "%s\n%s\n\n", n.Title, n.Text)
	})
}

func newRosterCmd(a *app) *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List every enrolled student",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.reports.Roster(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asCSV {
				cw := csv.NewWriter(out)
				_ = cw.Write(view.Columns)
				_ = cw.WriteAll(view.Rows)
				return cw.Error()
			}
			if view.Empty {
				fmt.Fprintln(out, view.Message)
				return nil
			}
			fmt.Fprintln(out, rosterTable(view))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write CSV instead of a table")
	return cmd
}

func rosterTable(view *services.RosterView) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.Muted)).
		Headers(view.Columns...).
		Rows(view.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

func newTopCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the students with the highest percentage",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", n)
			}
			lb, err := a.reports.Leaderboard(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), lb.Body())
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", services.DefaultLeaderboardSize, "Number of students")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and students table if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup has already ensured the schema
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "students table ready in %s\n", a.cfg.DB.Path)

			if a.configPath == "" {
				return nil
			}
			if _, err := os.Stat(a.configPath); err == nil {
				return nil
			} else if !os.IsNotExist(err) {
				return err
			}
			if err := a.cfg.Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote default config to %s\n", a.configPath)
			return nil
		},
	}
}
