package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/VladKovDev/botconstructor/internal/services/validation"
	"github.com/VladKovDev/botconstructor/pkg/logger"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scenario.ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.Is(err, scenario.ErrNoDraft):
		return http.StatusConflict
	case errors.Is(err, validation.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, scenario.ErrUnknownBlockType),
		errors.Is(err, scenario.ErrNoStartBlock),
		errors.Is(err, scenario.ErrMultipleStartBlocks),
		errors.Is(err, scenario.ErrDuplicateBlockID),
		errors.Is(err, scenario.ErrPlacementMismatch),
		errors.Is(err, scenario.ErrDanglingConnection),
		errors.Is(err, scenario.ErrInvalidConnection),
		errors.Is(err, scenario.ErrPortOccupied),
		errors.Is(err, scenario.ErrTypeMismatch),
		errors.Is(err, validation.ErrTooManyAttachments),
		errors.Is(err, validation.ErrMediaTypeNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")
