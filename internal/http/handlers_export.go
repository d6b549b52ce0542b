package http

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"net/http"

	"farmbook/internal/export"
	"farmbook/internal/store"
)

func (s *Server) loadExportData(r *http.Request) (snap store.Snapshot, errResp *ResponseBuilder) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		return snap, storeError(err)
	}
	crops, err := s.store.ListCrops(r.Context())
	if err != nil {
		return snap, storeError(err)
	}
	equipment, err := s.store.ListEquipment(r.Context())
	if err != nil {
		return snap, storeError(err)
	}
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		return snap, storeError(err)
	}
	snap.Transactions = txs
	snap.Crops = crops
	snap.Equipment = equipment
	snap.Settings = settings
	return snap, nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}
	start, end, err := ParseRangeParams(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	snap, errResp := s.loadExportData(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	doc := export.BuildExport(snap.Transactions, snap.Crops, snap.Equipment, start, end)
	filename := "farm-export-" + start.String() + "-" + end.String() + ".csv"
	NewResponse().
		Header("Content-Type", "text/csv; charset=utf-8").
		Header("Content-Disposition", `attachment; filename="`+filename+`"`).
		Bytes(doc).
		Write(w)
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}
	start, end, err := ParseRangeParams(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	snap, errResp := s.loadExportData(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	doc := export.BuildPrintableDocument(snap.Transactions, snap.Crops, snap.Equipment, snap.Settings, start, end)
	NewResponse().Text(doc).Write(w)
}

type sheetsExportResponse struct {
	Ref  string `json:"ref"`
	Rows int    `json:"rows"`
}

// handleExportSheets pushes the delimited export to the configured
// spreadsheet. Titles and blank separator lines collapse into the row stream
// the way csv.Reader reads them.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}
	if s.reports == nil {
		ServiceUnavailableError("spreadsheet export is not configured").Write(w)
		return
	}
	start, end, err := ParseRangeParams(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	snap, errResp := s.loadExportData(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	doc := export.BuildExport(snap.Transactions, snap.Crops, snap.Equipment, start, end)
	reader := csv.NewReader(bytes.NewReader(doc))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		slog.ErrorContext(r.Context(), "Export rows parse failed", "error", err)
		InternalServerError("internal error").Write(w)
		return
	}

	title := snap.Settings.FarmName + " report " + start.String() + " to " + end.String()
	ref, err := s.reports.AppendReport(r.Context(), title, rows)
	if err != nil {
		slog.ErrorContext(r.Context(), "Spreadsheet append failed", "error", err)
		ServiceUnavailableError("spreadsheet export failed").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Report exported to spreadsheet", "ref", ref, "rows", len(rows))
	NewResponse().JSON(sheetsExportResponse{Ref: ref, Rows: len(rows)}).Write(w)
}
