package http

import (
	"log/slog"
	"net/http"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/report"
)

type equipmentRequest struct {
	Name         string `json:"name"`
	PurchaseDate string `json:"purchaseDate"`
	Model        string `json:"model"`
	Notes        string `json:"notes"`
}

// equipmentResponse decorates equipment with derived maintenance figures.
type equipmentResponse struct {
	core.Equipment
	MaintenanceCost core.Money           `json:"maintenanceCost"`
	LastMaintenance *core.MaintenanceLog `json:"lastMaintenance,omitempty"`
}

func equipmentView(e core.Equipment) equipmentResponse {
	out := equipmentResponse{Equipment: e, MaintenanceCost: report.MaintenanceCost(e)}
	if last, ok := report.MostRecentLog(e); ok {
		out.LastMaintenance = &last
	}
	return out
}

func parseEquipment(req equipmentRequest) (core.Equipment, *ResponseBuilder) {
	purchased, err := core.ParseDate(req.PurchaseDate)
	if err != nil {
		return core.Equipment{}, UnprocessableEntityError("invalid purchase date, want YYYY-MM-DD")
	}
	e := core.Equipment{
		Name:         sanitizeInput(req.Name),
		PurchaseDate: purchased,
		Model:        sanitizeInput(req.Model),
		Notes:        sanitizeInput(req.Notes),
	}
	if err := e.Validate(); err != nil {
		return core.Equipment{}, storeError(err)
	}
	return e, nil
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.store.ListEquipment(r.Context())
		if err != nil {
			storeError(err).Write(w)
			return
		}
		views := make([]equipmentResponse, 0, len(items))
		for _, e := range items {
			views = append(views, equipmentView(e))
		}
		NewResponse().JSON(views).Write(w)

	case http.MethodPost:
		var req equipmentRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		eq, errResp := parseEquipment(req)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		created, err := s.store.CreateEquipment(r.Context(), eq)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create equipment failed", "error", err)
			storeError(err).Write(w)
			return
		}
		s.publishEvent(r.Context(), amqp.EntityEquipment, amqp.ActionCreated, created.ID)
		NewResponse().Status(http.StatusCreated).JSON(equipmentView(created)).Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleEquipmentByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		eq, err := s.store.GetEquipment(r.Context(), id)
		if err != nil {
			storeError(err).Write(w)
			return
		}
		NewResponse().JSON(equipmentView(eq)).Write(w)

	case http.MethodPut:
		var req equipmentRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		eq, errResp := parseEquipment(req)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		eq.ID = id
		if err := s.store.UpdateEquipment(r.Context(), eq); err != nil {
			storeError(err).Write(w)
			return
		}
		updated, err := s.store.GetEquipment(r.Context(), id)
		if err != nil {
			storeError(err).Write(w)
			return
		}
		s.publishEvent(r.Context(), amqp.EntityEquipment, amqp.ActionUpdated, id)
		NewResponse().JSON(equipmentView(updated)).Write(w)

	case http.MethodDelete:
		if err := s.store.DeleteEquipment(r.Context(), id); err != nil {
			storeError(err).Write(w)
			return
		}
		s.publishEvent(r.Context(), amqp.EntityEquipment, amqp.ActionDeleted, id)
		NewResponse().Status(http.StatusNoContent).Write(w)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}

type maintenanceLogRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

func (s *Server) handleMaintenanceLogs(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodPost); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	var req maintenanceLogRequest
	if err := decodeJSON(r, &req); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		UnprocessableEntityError("invalid date, want YYYY-MM-DD").Write(w)
		return
	}
	cents, err := core.ParseDecimalToCents(req.Cost)
	if err != nil {
		UnprocessableEntityError("invalid cost: " + err.Error()).Write(w)
		return
	}

	logEntry := core.MaintenanceLog{
		Date:        date,
		Description: sanitizeInput(req.Description),
		Cost:        core.Money{Cents: cents},
	}
	if err := logEntry.Validate(); err != nil {
		storeError(err).Write(w)
		return
	}

	created, err := s.store.AddMaintenanceLog(r.Context(), id, logEntry)
	if err != nil {
		storeError(err).Write(w)
		return
	}
	s.publishEvent(r.Context(), amqp.EntityEquipment, amqp.ActionUpdated, id)
	NewResponse().Status(http.StatusCreated).JSON(created).Write(w)
}

func (s *Server) handleMaintenanceLogByID(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodDelete); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")
	logID := r.PathValue("logID")

	if err := s.store.DeleteMaintenanceLog(r.Context(), id, logID); err != nil {
		storeError(err).Write(w)
		return
	}
	s.publishEvent(r.Context(), amqp.EntityEquipment, amqp.ActionUpdated, id)
	NewResponse().Status(http.StatusNoContent).Write(w)
}
