package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/plcheng/screener/internal/contracts"
	"github.com/plcheng/screener/internal/screener"
	"github.com/plcheng/screener/pkg/logger"
)

// ScreenService is the part of the screener the handler depends on
type ScreenService interface {
	Run(ctx context.Context, tickers []string, weights contracts.WeightConfig) ([]contracts.RankedRecord, error)
	MaxTickers() int
}

// ScreenHandler handles screening API endpoints
type ScreenHandler struct {
	service  ScreenService
	validate *validator.Validate
	logger   *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(service ScreenService, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		service:  service,
		validate: validator.New(),
		logger:   log,
	}
}

// ScreenRequest represents a screening request
type ScreenRequest struct {
	Tickers []string               `json:"tickers" validate:"required,min=1,dive,required"`
	Weights contracts.WeightConfig `json:"weights" validate:"required,min=1"`
}

// Screen runs a screening request end to end
// POST /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request must include a non-empty 'tickers' list and a non-empty 'weights' map")
		return
	}

	for name := range req.Weights {
		if !contracts.IsFactorName(name) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown factor %q (valid: %v)", name, contracts.FactorNames()))
			return
		}
	}

	if maxTickers := h.service.MaxTickers(); len(req.Tickers) > maxTickers {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("Too many tickers: %d requested, maximum is %d", len(req.Tickers), maxTickers))
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"tickers": len(req.Tickers),
		"factors": len(req.Weights),
	}).Info("Screening request accepted")

	ranked, err := h.service.Run(ctx, req.Tickers, req.Weights)
	if err != nil {
		if errors.Is(err, screener.ErrNoValidData) {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.logger.WithError(err).Error("Screening run failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "An unexpected error occurred",
			"message": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ranked)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
