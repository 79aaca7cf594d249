package handlers

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"atlascon/internal/engine/dispatch"
	"atlascon/internal/pkg/errors"
)

type EventHandler struct {
	svc *dispatch.Service
}

func NewEventHandler(svc *dispatch.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

// Receive is the inbound webhook endpoint. As long as the body could be
// read, the response is success-shaped; per-connector failures are only
// visible in the delivery logs.
func (h *EventHandler) Receive(w http.ResponseWriter, r *http.Request) {
	tenantID := pathParam(r, "tenant_id")

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	result, err := h.svc.ProcessEvent(r.Context(), tenantID, raw)
	if err != nil {
		log.Error().Str("tenant", tenantID).Err(err).Msg("event dispatch failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}
