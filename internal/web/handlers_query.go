package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/cfop/internal/core"
)

type documentResponse struct {
	Found   bool                  `json:"found"`
	Headers []core.DocumentHeader `json:"headers"`
	Check   core.DocumentCheck    `json:"check"`
	Correct bool                  `json:"correct"`
}

// handleDocument returns the headers of a document and the validation of
// its items.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	number := pathParam(r, "number")

	check, found := b.ValidateDocument(number)
	if !found {
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			Message: fmt.Sprintf("Nota %s não encontrada no cabeçalho.", number),
		})
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{
		Found:   true,
		Headers: b.FindHeaderByNumber(number),
		Check:   check,
		Correct: check.Correct(),
	})
}

// handleDocumentItems lists the line items of a document. Items may exist
// without a header, so this does not consult the header table.
func (s *Server) handleDocumentItems(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	number := pathParam(r, "number")

	items := b.FindItemsByNumber(number)
	if len(items) == 0 {
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			Message: fmt.Sprintf("Nenhum item encontrado para nota %s.", number),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "items": items})
}

// handleAccessKeySearch finds headers whose access key contains the fragment.
func (s *Server) handleAccessKeySearch(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	partial := pathParam(r, "key")

	match := b.FindByAccessKeySubstring(partial)
	if !match.Found() {
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			Message: fmt.Sprintf("Nenhuma nota encontrada com chave contendo: %s", partial),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "match": match})
}

// handleAccessKeyDecode splits a full access key into its fields. It does
// not need a batch.
func (s *Server) handleAccessKeyDecode(w http.ResponseWriter, r *http.Request) {
	key, err := core.DecodeAccessKey(pathParam(r, "key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_key":           key,
		"expected_check_digit": key.ExpectedCheckDigit(),
		"check_digit_valid":    key.CheckDigitValid(),
	})
}

// handleReferenceCode looks up one operation code.
func (s *Server) handleReferenceCode(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	code := pathParam(r, "code")

	entry, found := b.FindByCode(code)
	if !found {
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			Message: fmt.Sprintf("CFOP %s não encontrado na tabela.", code),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "entry": entry})
}

// handleReferenceByDigit lists operation codes starting with ?digit=.
func (s *Server) handleReferenceByDigit(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	digit := r.URL.Query().Get("digit")
	if digit == "" {
		s.respondError(w, r, fmt.Errorf("%w: digit", core.ErrMissingArgument))
		return
	}
	limit := parseIntParam(r, "limit", s.cfg.Batch.ReferenceLimit)

	entries := b.ListByLeadingDigit(digit, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"digit":   digit,
		"found":   len(entries) > 0,
		"entries": entries,
	})
}
