package http

import (
	"log/slog"
	"net/http"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
)

// transactionRequest is the wire form for creating and updating transactions.
// The amount is a decimal string ("123.45") parsed to exact cents.
type transactionRequest struct {
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CropID      string `json:"cropId"`
}

func (s *Server) parseTransaction(r *http.Request, req transactionRequest) (core.Transaction, *ResponseBuilder) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, UnprocessableEntityError("invalid amount: " + err.Error())
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, UnprocessableEntityError("invalid date, want YYYY-MM-DD")
	}

	tx := core.Transaction{
		Kind:        core.TransactionKind(req.Kind),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		CropID:      sanitizeInput(req.CropID),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, storeError(err)
	}

	// Category membership is checked against settings on write; existing
	// transactions keep their category even if it is later removed.
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		return core.Transaction{}, storeError(err)
	}
	if !settings.HasCategory(tx.Kind, tx.Category) {
		return core.Transaction{}, UnprocessableEntityError("unknown category for " + string(tx.Kind) + ": " + tx.Category)
	}

	return tx, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		storeError(err).Write(w)
		return
	}

	// Optional from/to filter over whole calendar days.
	if r.URL.Query().Get("from") != "" || r.URL.Query().Get("to") != "" {
		start, end, perr := ParseRangeParams(r)
		if perr != nil {
			BadRequestError(perr.Error()).Write(w)
			return
		}
		filtered := txs[:0:0]
		for _, tx := range txs {
			if tx.Date.OnOrAfter(start) && tx.Date.OnOrBefore(end) {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}

	if txs == nil {
		txs = []core.Transaction{}
	}
	NewResponse().JSON(txs).Write(w)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	tx, errResp := s.parseTransaction(r, req)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	created, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		storeError(err).Write(w)
		return
	}

	s.logs.LogTransactionRecorded(r.Context(), string(created.Kind), created.Amount.Cents, created.Category, created.CropID)

	s.dashCache.Purge()
	s.publishEvent(r.Context(), amqp.EntityTransaction, amqp.ActionCreated, created.ID)
	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		tx, err := s.store.GetTransaction(r.Context(), id)
		if err != nil {
			storeError(err).Write(w)
			return
		}
		NewResponse().JSON(tx).Write(w)

	case http.MethodPut:
		var req transactionRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		tx, errResp := s.parseTransaction(r, req)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		tx.ID = id
		if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		s.publishEvent(r.Context(), amqp.EntityTransaction, amqp.ActionUpdated, id)
		NewResponse().JSON(tx).Write(w)

	case http.MethodDelete:
		if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		s.publishEvent(r.Context(), amqp.EntityTransaction, amqp.ActionDeleted, id)
		NewResponse().Status(http.StatusNoContent).Write(w)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
