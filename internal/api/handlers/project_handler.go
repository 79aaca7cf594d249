package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"atlascon/internal/jira"
	"atlascon/internal/pkg/errors"
	"atlascon/internal/platform/repositories"
)

type ProjectHandler struct {
	userRepo   *repositories.UserRepository
	jiraClient *jira.Client
}

func NewProjectHandler(userRepo *repositories.UserRepository, jiraClient *jira.Client) *ProjectHandler {
	return &ProjectHandler{userRepo: userRepo, jiraClient: jiraClient}
}

// List returns the Jira projects visible to the caller. Credentials may
// be supplied as query parameters (the pre-registration flow) or fall
// back to the user's stored Jira account.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	email := r.URL.Query().Get("email")
	apiKey := r.URL.Query().Get("api_key")
	baseURL := strings.TrimRight(r.URL.Query().Get("base_url"), "/")

	if email == "" || apiKey == "" || baseURL == "" {
		user, err := h.userRepo.GetByID(claims.UserID)
		if err != nil || user.JiraEmail == "" {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "No Jira credentials supplied or stored", nil)
			return
		}
		email, apiKey, baseURL = user.JiraEmail, user.JiraAPIKey, user.JiraBaseURL
	}

	projects, err := h.jiraClient.GetProjects(r.Context(), baseURL, email, apiKey)
	if err != nil {
		if stderrors.Is(err, jira.ErrBadAPIKey) || stderrors.Is(err, jira.ErrBadEmail) {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeBadCredential, err.Error(), nil)
			return
		}
		errors.WriteError(w, http.StatusBadGateway, errors.ErrCodeUpstream, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}
