package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/parceldesk/courier/internal/billing"
	"github.com/parceldesk/courier/internal/booking"
	"github.com/parceldesk/courier/internal/store"
	"github.com/parceldesk/courier/pkg/courier"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Detail string   `json:"detail,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var form booking.BookingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	outcome, err := s.engine.BookShipment(r.Context(), form)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleBulkValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	results, err := s.engine.ValidateForBulkShip(r.Context(), req.IDs)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleBulkShip(w http.ResponseWriter, r *http.Request) {
	var req booking.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Incremental progress goes to the log; the caller receives the full
	// per-item partition when the sequential run completes.
	progress := func(completed, total int, result booking.BulkShipResult) {
		s.logger.Info("Bulk progress",
			zap.Int("completed", completed),
			zap.Int("total", total),
			zap.String("shipment_id", result.ID),
			zap.Bool("success", result.Success),
		)
	}

	results, err := s.engine.BulkShip(r.Context(), req, progress)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.engine.CancelShipment(r.Context(), id); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(store.StatusCancelled)})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{
		ClientID: q.Get("clientId"),
		Courier:  q.Get("courier"),
		Status:   store.Status(q.Get("status")),
		Search:   q.Get("search"),
	}
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = t
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = t
		}
	}

	shipments, err := s.shipments.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"shipments": shipments})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Length       float64 `json:"length"`
		Width        float64 `json:"width"`
		Height       float64 `json:"height"`
		ActualWeight float64 `json:"actualWeight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	weights := billing.ComputeWeights(billing.Dimensions{
		Length: req.Length,
		Width:  req.Width,
		Height: req.Height,
	}, req.ActualWeight)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"volumetric": weights.Volumetric,
		"actual":     weights.Actual,
		"billable":   weights.Billable,
		"price":      billing.ComputePrice(weights.Billable),
	})
}

// writeEngineError maps engine errors onto HTTP statuses: validation problems
// are the caller's to fix, courier rejections are upstream failures.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Errors: verr.Errors})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, courier.ErrCourierNotFound) || errors.Is(err, courier.ErrNotBooked) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var cerr *courier.CourierError
	if errors.As(err, &cerr) {
		status := http.StatusBadGateway
		if cerr.Code == courier.CodeValidation {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: cerr.Message, Detail: cerr.Detail})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
