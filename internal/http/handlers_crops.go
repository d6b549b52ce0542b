package http

import (
	"log/slog"
	"net/http"
	"time"

	"farmbook/internal/amqp"
	"farmbook/internal/core"
	"farmbook/internal/report"
)

type cropRequest struct {
	Name                 string  `json:"name"`
	PlantingDate         string  `json:"plantingDate"`
	EstimatedHarvestDate string  `json:"estimatedHarvestDate"`
	ActualHarvestDate    string  `json:"actualHarvestDate"`
	Area                 float64 `json:"area"`
	AreaUnit             string  `json:"areaUnit"`
	YieldAmount          float64 `json:"yieldAmount"`
	YieldUnit            string  `json:"yieldUnit"`
	Notes                string  `json:"notes"`
}

// cropResponse decorates a crop with its derived lifecycle status.
type cropResponse struct {
	core.Crop
	Status core.CropStatus `json:"status"`
}

func cropView(c core.Crop, now time.Time) cropResponse {
	return cropResponse{Crop: c, Status: c.Status(now)}
}

func parseCrop(req cropRequest) (core.Crop, *ResponseBuilder) {
	planting, err := core.ParseDate(req.PlantingDate)
	if err != nil {
		return core.Crop{}, UnprocessableEntityError("invalid planting date, want YYYY-MM-DD")
	}
	estimated, err := core.ParseDate(req.EstimatedHarvestDate)
	if err != nil {
		return core.Crop{}, UnprocessableEntityError("invalid estimated harvest date, want YYYY-MM-DD")
	}
	var actual core.Date
	if req.ActualHarvestDate != "" {
		actual, err = core.ParseDate(req.ActualHarvestDate)
		if err != nil {
			return core.Crop{}, UnprocessableEntityError("invalid actual harvest date, want YYYY-MM-DD")
		}
	}

	c := core.Crop{
		Name:                 sanitizeInput(req.Name),
		PlantingDate:         planting,
		EstimatedHarvestDate: estimated,
		ActualHarvestDate:    actual,
		Area:                 req.Area,
		AreaUnit:             core.AreaUnit(req.AreaUnit),
		YieldAmount:          req.YieldAmount,
		YieldUnit:            sanitizeInput(req.YieldUnit),
		Notes:                sanitizeInput(req.Notes),
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return core.Crop{}, storeError(err)
	}
	return c, nil
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		crops, err := s.store.ListCrops(r.Context())
		if err != nil {
			storeError(err).Write(w)
			return
		}
		now := time.Now()
		views := make([]cropResponse, 0, len(crops))
		for _, c := range crops {
			views = append(views, cropView(c, now))
		}
		NewResponse().JSON(views).Write(w)

	case http.MethodPost:
		var req cropRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		crop, errResp := parseCrop(req)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		created, err := s.store.CreateCrop(r.Context(), crop)
		if err != nil {
			slog.ErrorContext(r.Context(), "Create crop failed", "error", err)
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		s.publishEvent(r.Context(), amqp.EntityCrop, amqp.ActionCreated, created.ID)
		NewResponse().Status(http.StatusCreated).JSON(cropView(created, time.Now())).Write(w)

	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleCropByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		crop, err := s.store.GetCrop(r.Context(), id)
		if err != nil {
			storeError(err).Write(w)
			return
		}
		NewResponse().JSON(cropView(crop, time.Now())).Write(w)

	case http.MethodPut:
		var req cropRequest
		if err := decodeJSON(r, &req); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		crop, errResp := parseCrop(req)
		if errResp != nil {
			errResp.Write(w)
			return
		}
		crop.ID = id
		if err := s.store.UpdateCrop(r.Context(), crop); err != nil {
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		s.publishEvent(r.Context(), amqp.EntityCrop, amqp.ActionUpdated, id)
		NewResponse().JSON(cropView(crop, time.Now())).Write(w)

	case http.MethodDelete:
		// Linked transactions survive crop deletion; they keep the stale
		// crop id and drop out of profitability queries.
		if err := s.store.DeleteCrop(r.Context(), id); err != nil {
			storeError(err).Write(w)
			return
		}
		s.dashCache.Purge()
		s.publishEvent(r.Context(), amqp.EntityCrop, amqp.ActionDeleted, id)
		NewResponse().Status(http.StatusNoContent).Write(w)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}

type cropProfitResponse struct {
	CropID   string     `json:"cropId"`
	Income   core.Money `json:"income"`
	Expenses core.Money `json:"expenses"`
	Profit   core.Money `json:"profit"`
}

func (s *Server) handleCropProfit(w http.ResponseWriter, r *http.Request) {
	if errResp := RequireMethod(r, http.MethodGet); errResp != nil {
		errResp.Write(w)
		return
	}
	id := r.PathValue("id")

	if _, err := s.store.GetCrop(r.Context(), id); err != nil {
		storeError(err).Write(w)
		return
	}
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		storeError(err).Write(w)
		return
	}

	summary := report.CropProfit(id, txs)
	NewResponse().JSON(cropProfitResponse{
		CropID:   summary.CropID,
		Income:   summary.Income,
		Expenses: summary.Expenses,
		Profit:   summary.Profit(),
	}).Write(w)
}
