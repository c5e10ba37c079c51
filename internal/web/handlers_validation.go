package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/export"
	"github.com/JonMunkholm/cfop/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type validationResponse struct {
	BatchID string `json:"batch_id"`
	core.ValidationReport
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Text      string `json:"text"`
}

// handleValidation validates every item of the active batch. The response
// lists at most ?limit= discrepancies; the counts always cover all of them.
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	report, b, err := s.service.Validate()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	limit := parseIntParam(r, "limit", s.cfg.Batch.DiscrepancyLimit)

	writeJSON(w, http.StatusOK, validationResponse{
		BatchID:          b.ID(),
		ValidationReport: report.Truncated(limit),
		Limit:            limit,
		Remaining:        report.Remaining(limit),
		Text:             core.FormatValidationReport(report, limit),
	})
}

// handleValidationExport streams the full validation report as XLSX.
func (s *Server) handleValidationExport(w http.ResponseWriter, r *http.Request) {
	report, b, err := s.service.Validate()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	// Render to a buffer first so a failure can still produce an error response.
	var buf bytes.Buffer
	if err := export.WriteValidationReport(&buf, b.ID(), report); err != nil {
		s.respondError(w, r, fmt.Errorf("export validation: %w", err))
		return
	}

	logging.WithFields(logging.WithBatch(r.Context(), b.ID()),
		"discrepancies", report.DiscrepancyCount,
		"bytes", buf.Len(),
	).Info("validation exported")

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="validacao-%s.xlsx"`, shortID(b.ID())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
