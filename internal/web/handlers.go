package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/cfop/internal/web/templates"
)

// render writes a full HTML page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleOverview renders the batch overview, or the upload form when no
// batch is loaded.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	b, ok := s.service.Current()
	if !ok {
		s.render(w, r, "Lote", templates.EmptyState())
		return
	}
	s.render(w, r, "Lote", templates.Overview(templates.OverviewData{
		LoadedAt: b.LoadedAt(),
		Summary:  b.Summarize(),
	}))
}

// handleReportPage renders the validation report.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	report, b, err := s.service.Validate()
	if err != nil {
		s.render(w, r, "Validação", templates.EmptyState())
		return
	}
	s.render(w, r, "Validação", templates.Report(templates.ReportData{
		BatchID: b.ID(),
		Report:  report,
		Limit:   parseIntParam(r, "limit", s.cfg.Batch.DiscrepancyLimit),
	}))
}
