package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"farmbook/internal/advisory"
)

type advisoryRequest struct {
	Question string `json:"question"`
}

type advisoryResponse struct {
	Answer string `json:"answer"`
}

// handleAdvisory answers a free-form question against a briefing built from
// current farm records. Requires a configured advisor.
func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}
	if s.advisor == nil {
		ServiceUnavailableError("advisory is not configured").Write(w)
		return
	}

	var req advisoryRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	question := strings.TrimSpace(sanitizeInput(req.Question))
	if question == "" {
		UnprocessableEntityError("question is required").Write(w)
		return
	}

	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	crops, err := s.store.ListCrops(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}
	todos, err := s.store.ListTodos(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}

	briefing := advisory.BuildBriefing(settings, txs, crops, todos, time.Now())
	answer, err := s.advisor.Advise(r.Context(), briefing, question)
	if err != nil {
		slog.ErrorContext(r.Context(), "Advisory request failed", "error", err)
		ServiceUnavailableError("advisory request failed").Write(w)
		return
	}

	NewResponse().JSON(advisoryResponse{Answer: answer}).Write(w)
}
