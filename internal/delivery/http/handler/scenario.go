package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/VladKovDev/botconstructor/internal/domain/repository"
	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/blocktype"
	"github.com/VladKovDev/botconstructor/pkg/logger"
	"go.uber.org/zap"
)

// ScenarioHandler serves the scenario REST resource: CRUD, draft
// autosave via PATCH, and draft promotion.
type ScenarioHandler struct {
	repo     repository.ScenarioRepository
	registry *blocktype.Registry
	logger   logger.Logger
}

func NewScenarioHandler(repo repository.ScenarioRepository, registry *blocktype.Registry, logger logger.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		repo:     repo,
		registry: registry,
		logger:   logger,
	}
}

func (h *ScenarioHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /scenario", h.create)
	mux.HandleFunc("GET /scenario", h.list)
	mux.HandleFunc("GET /scenario/{id}", h.get)
	mux.HandleFunc("PATCH /scenario/{id}", h.update)
	mux.HandleFunc("DELETE /scenario/{id}", h.delete)
	mux.HandleFunc("POST /scenario/{id}/draft/apply", h.applyDraft)
}

type createScenarioRequest struct {
	Name string `json:"name"`
}

func (h *ScenarioHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.Name == "" {
		writeError(w, h.logger, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}

	start, err := h.registry.NewBlock(scenario.BlockStart)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	sc := &scenario.Scenario{
		Name: req.Name,
		Data: scenario.Document{}.WithBlock(start, scenario.Coordinates{X: 0, Y: 0}),
	}
	if err := h.repo.Create(r.Context(), sc); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("scenario created", zap.String("scenario_id", sc.ID))
	writeJSON(w, http.StatusCreated, sc)
}

func (h *ScenarioHandler) list(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.repo.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if scenarios == nil {
		scenarios = []*scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *ScenarioHandler) get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// updateScenarioRequest is a partial update. The draft field is
// tri-state: absent leaves the draft alone, null clears it, and an
// object replaces it.
type updateScenarioRequest struct {
	Name    *string         `json:"name"`
	Enabled *bool           `json:"enabled"`
	Draft   json.RawMessage `json:"draft"`
}

func (h *ScenarioHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeError(w, h.logger, fmt.Errorf("%w: name cannot be empty", errBadRequest))
			return
		}
		sc.Name = *req.Name
	}
	if req.Enabled != nil {
		sc.Enabled = *req.Enabled
	}

	if len(req.Draft) > 0 {
		if string(req.Draft) == "null" {
			sc.Draft = nil
		} else {
			var draft scenario.Draft
			if err := json.Unmarshal(req.Draft, &draft); err != nil {
				// Unknown block kinds keep their own status mapping.
				if !errors.Is(err, scenario.ErrUnknownBlockType) {
					err = fmt.Errorf("%w: %v", errBadRequest, err)
				}
				writeError(w, h.logger, err)
				return
			}
			sc.Draft = &draft
		}
	}

	if err := h.repo.Update(r.Context(), sc); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *ScenarioHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("scenario deleted", zap.String("scenario_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// applyDraft promotes the stored draft to the live document. The draft
// must pass structural validation; its active triggers become the new
// trigger projection.
func (h *ScenarioHandler) applyDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sc, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if sc.Draft == nil {
		writeError(w, h.logger, fmt.Errorf("%w: %s", scenario.ErrNoDraft, id))
		return
	}
	if err := sc.Draft.Data.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	triggers := scenario.ActiveTriggers(sc.Draft.Data)
	if err := h.repo.ApplyDraft(r.Context(), id, triggers); err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("draft applied", zap.String("scenario_id", id))
	writeJSON(w, http.StatusOK, updated)
}
