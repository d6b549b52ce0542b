package http

import (
	"io"
	"log/slog"
	"net/http"

	"farmbook/internal/backup"
)

type backupWriteResponse struct {
	Path string `json:"path"`
}

// handleBackup serves the snapshot. GET streams the JSON snapshot for
// download; POST writes a timestamped file to the backup directory.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		snap, err := s.store.Snapshot(r.Context())
		if err != nil {
			storeError(err).Write(w)
			return
		}
		data, err := backup.Encode(snap)
		if err != nil {
			slog.ErrorContext(r.Context(), "Snapshot encoding failed", "error", err)
			InternalServerError("internal error").Write(w)
			return
		}
		NewResponse().
			Header("Content-Type", "application/json; charset=utf-8").
			Header("Content-Disposition", `attachment; filename="farmbook-backup.json"`).
			Bytes(data).
			Write(w)

	case http.MethodPost:
		if s.backups == nil {
			ServiceUnavailableError("backups are not configured").Write(w)
			return
		}
		path, err := s.backups.Write(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Backup write failed", "error", err)
			InternalServerError("backup failed").Write(w)
			return
		}
		NewResponse().Status(http.StatusCreated).JSON(backupWriteResponse{Path: path}).Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleRestore replaces all records with the uploaded snapshot.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	snap, err := backup.Decode(body)
	if err != nil {
		UnprocessableEntityError("invalid snapshot: " + err.Error()).Write(w)
		return
	}

	if err := s.store.Restore(r.Context(), snap); err != nil {
		slog.ErrorContext(r.Context(), "Restore failed", "error", err)
		InternalServerError("restore failed").Write(w)
		return
	}

	s.dashCache.Purge()
	slog.InfoContext(r.Context(), "Snapshot restored",
		"transactions", len(snap.Transactions),
		"crops", len(snap.Crops),
		"equipment", len(snap.Equipment))
	NewResponse().Status(http.StatusNoContent).Write(w)
}
