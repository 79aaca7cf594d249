package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/goccy/go-json"

	"atlascon/internal/engine/connectors"
	"atlascon/internal/pkg/errors"
	"atlascon/internal/platform/models"
)

type ConnectorHandler struct {
	svc *connectors.Service
}

func NewConnectorHandler(svc *connectors.Service) *ConnectorHandler {
	return &ConnectorHandler{svc: svc}
}

func (h *ConnectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var con models.Connector
	if err := json.NewDecoder(r.Body).Decode(&con); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.svc.Create(r.Context(), claims.UserID, &con); err != nil {
		writeConnectorError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, con)
}

func (h *ConnectorHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	cons, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Storage error", nil)
		return
	}
	writeJSON(w, http.StatusOK, cons)
}

func (h *ConnectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	name := pathParam(r, "name")

	con, err := h.svc.Get(r.Context(), claims.UserID, name)
	if err != nil {
		writeConnectorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, con)
}

func (h *ConnectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	name := pathParam(r, "name")

	var con models.Connector
	if err := json.NewDecoder(r.Body).Decode(&con); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.svc.Update(r.Context(), claims.UserID, name, &con); err != nil {
		writeConnectorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, con)
}

func (h *ConnectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	name := pathParam(r, "name")

	if err := h.svc.Delete(r.Context(), claims.UserID, name); err != nil {
		writeConnectorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Connector deleted"})
}

func (h *ConnectorHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	name := pathParam(r, "name")

	entries, err := h.svc.GetLog(r.Context(), claims.UserID, name)
	if err != nil {
		writeConnectorError(w, err)
		return
	}
	if entries == nil {
		entries = []models.DeliveryLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeConnectorError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, connectors.ErrNotFound):
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, err.Error(), nil)
	case stderrors.Is(err, connectors.ErrAlreadyExists):
		errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, err.Error(), nil)
	default:
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
	}
}
