package evaluator

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/records"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/users/{id}/evaluations", h.handleRun).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/evaluations/latest", h.handleLatest).Methods(http.MethodGet)
	router.HandleFunc("/guidelines/reload", h.handleReload).Methods(http.MethodPost)
}

// evaluationResponse pairs a result with the mandatory educational
// disclaimer; the evaluator core never embeds it.
type evaluationResponse struct {
	models.EvaluationResult
	Disclaimer string `json:"disclaimer"`
}

func (h *HTTPHandler) handleRun(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("evaluation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(evaluationResponse{
		EvaluationResult: *result,
		Disclaimer:       models.EducationalDisclaimer,
	})
}

func (h *HTTPHandler) handleLatest(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Latest(r.Context(), userID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrNoEvaluation) {
			http.Error(w, "no evaluation on record", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch latest evaluation")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(evaluationResponse{
		EvaluationResult: *result,
		Disclaimer:       models.EducationalDisclaimer,
	})
}

func (h *HTTPHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	version, count, err := h.service.ReloadRules()
	if err != nil {
		logger.Log.WithError(err).Error("failed to reload guideline rules")
		http.Error(w, "failed to reload rules", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"version": version,
		"rules":   count,
	})
}
