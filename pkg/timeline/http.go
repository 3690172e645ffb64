package timeline

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/records"
	"github.com/prevalet-health/platform/pkg/trend"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/users/{id}/timeline", h.handleTimeline).Methods(http.MethodGet)
}

type timelineResponse struct {
	models.TimelineResult
	// Favorable marks, per category, whether the bare trend direction is
	// the favorable one for that metric family. The trend label itself is a
	// sign judgment; the inversion lives here at the caller boundary.
	Favorable map[string]bool `json:"favorable,omitempty"`
}

func (h *HTTPHandler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	window := r.URL.Query().Get("window")
	if window != "" && !trend.ValidWindow(window) {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}

	result, err := h.service.Timeline(r.Context(), userID, window)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to compute timeline")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(timelineResponse{
		TimelineResult: *result,
		Favorable:      favorableDirections(result.Trends),
	})
}

func favorableDirections(trends map[string]models.TrendResult) map[string]bool {
	favorable := make(map[string]bool, len(trends))
	for category, tr := range trends {
		switch tr.Trend {
		case models.TrendImproving:
			favorable[category] = trend.HigherIsBetter(category)
		case models.TrendDeclining:
			favorable[category] = !trend.HigherIsBetter(category)
		default:
			favorable[category] = true
		}
	}
	return favorable
}
