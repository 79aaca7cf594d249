package handlers

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"atlascon/internal/jira"
	"atlascon/internal/pkg/errors"
	"atlascon/internal/platform/repositories"
	"atlascon/internal/platform/storage"
)

type UserHandler struct {
	userRepo    *repositories.UserRepository
	jiraClient  *jira.Client
	store       storage.ObjectStore
	callbackURL string
}

func NewUserHandler(userRepo *repositories.UserRepository, jiraClient *jira.Client, store storage.ObjectStore, callbackURL string) *UserHandler {
	return &UserHandler{
		userRepo:    userRepo,
		jiraClient:  jiraClient,
		store:       store,
		callbackURL: callbackURL,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "User no longer exists", nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type RegisterJiraRequest struct {
	Email   string `json:"email"`
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// RegisterJira validates the Jira credentials by listing projects, then
// registers a webhook that delivers this user's events to the relay.
func (h *UserHandler) RegisterJira(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req RegisterJiraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	req.BaseURL = strings.TrimRight(req.BaseURL, "/")
	if req.Email == "" || req.APIKey == "" || req.BaseURL == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "email, api_key and base_url required", nil)
		return
	}

	if _, err := h.jiraClient.GetProjects(r.Context(), req.BaseURL, req.Email, req.APIKey); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeBadCredential, err.Error(), nil)
		return
	}

	callback := strings.TrimRight(h.callbackURL, "/") + "/api/v1/events/jira/" + claims.UserID
	webhookURL, err := h.jiraClient.RegisterWebhook(r.Context(), req.BaseURL, req.Email, req.APIKey, callback)
	if err != nil {
		errors.WriteError(w, http.StatusBadGateway, errors.ErrCodeUpstream, err.Error(), nil)
		return
	}

	if err := h.userRepo.SetJiraAccount(claims.UserID, req.Email, req.APIKey, req.BaseURL, webhookURL); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"webhook_url": webhookURL})
}

// Delete removes the account: the Jira webhook (best effort), every
// object the tenant owns in the store, then the user row.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	user, err := h.userRepo.GetByID(claims.UserID)
	if err != nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "User no longer exists", nil)
		return
	}

	if user.WebhookURL != "" {
		if err := h.jiraClient.DeleteWebhook(r.Context(), user.WebhookURL, user.JiraEmail, user.JiraAPIKey); err != nil {
			log.Warn().Str("user", user.ID).Err(err).Msg("failed to deregister jira webhook")
		}
	}

	for _, prefix := range []string{"connectors/" + user.ID + "/", "logs/" + user.ID + "/"} {
		keys, err := h.store.List(r.Context(), prefix)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Storage error", nil)
			return
		}
		for _, key := range keys {
			if err := h.store.Delete(r.Context(), key); err != nil {
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Storage error", nil)
				return
			}
		}
	}

	if err := h.userRepo.Delete(user.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
