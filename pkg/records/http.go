package records

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"gorm.io/datatypes"
)

type HTTPHandler struct {
	repo      *Repository
	validator *Validator
}

func NewHTTPHandler(repo *Repository, validator *Validator) *HTTPHandler {
	return &HTTPHandler{repo: repo, validator: validator}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/users/{id}/profile", h.handleUpsertProfile).Methods(http.MethodPut)
	router.HandleFunc("/users/{id}/observations", h.handleCreateObservations).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/observations", h.handleListObservations).Methods(http.MethodGet)
}

type profileRequest struct {
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	BiologicalSex string     `json:"biological_sex,omitempty"`
}

func (h *HTTPHandler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid profile payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rec := &ProfileRecord{
		ID:            userID,
		DateOfBirth:   req.DateOfBirth,
		BiologicalSex: req.BiologicalSex,
	}
	if err := h.repo.UpsertProfile(r.Context(), rec); err != nil {
		logger.Log.WithError(err).Error("failed to store profile")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

type observationsRequest struct {
	Observations []ObservationInput `json:"observations"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
}

func (h *HTTPHandler) handleCreateObservations(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req observationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid observations payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Observations) == 0 {
		http.Error(w, "no observations supplied", http.StatusBadRequest)
		return
	}

	var metadata datatypes.JSONMap
	if len(req.Metadata) > 0 {
		metadata = make(datatypes.JSONMap, len(req.Metadata))
		for k, v := range req.Metadata {
			metadata[k] = v
		}
	}

	recs := make([]ObservationRecord, 0, len(req.Observations))
	for _, input := range req.Observations {
		input = input.Normalized()
		if err := h.validator.Validate(input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		recs = append(recs, ObservationRecord{
			UserID:      userID,
			Category:    input.Category,
			Code:        input.Code,
			DisplayName: input.DisplayName,
			Value:       input.Value,
			Unit:        input.Unit,
			Timestamp:   input.Timestamp,
			Metadata:    metadata,
		})
	}

	if err := h.repo.CreateObservations(r.Context(), recs); err != nil {
		logger.Log.WithError(err).Error("failed to store observations")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"stored": len(recs),
	})
}

func (h *HTTPHandler) handleListObservations(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid since parameter", http.StatusBadRequest)
			return
		}
		since = &parsed
	}

	observations, err := h.repo.ListObservations(r.Context(), userID, since)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list observations")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"observations": observations,
		"count":        len(observations),
	})
}
