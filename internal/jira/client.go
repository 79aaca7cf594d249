package jira

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"atlascon/internal/platform/models"
)

var (
	ErrBadAPIKey = errors.New("incorrect api key")
	ErrBadEmail  = errors.New("incorrect email address")
)

// Client talks to a Jira Cloud site with the user's email + API token
// (basic auth). It covers the two thin collaborations the relay needs:
// listing projects and managing the inbound webhook registration.
type Client struct {
	httpc *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{httpc: &http.Client{Timeout: timeout}}
}

// GetProjects lists the site's projects as (id, name) pairs. Jira answers
// basic-auth failures with a 200 and an explanatory body, so the body is
// inspected rather than the status code.
func (c *Client) GetProjects(ctx context.Context, baseURL, email, apiKey string) ([]models.ProjectRef, error) {
	body, err := c.get(ctx, baseURL+"/rest/api/3/project", email, apiKey)
	if err != nil {
		return nil, err
	}

	if bytes.Contains(body, []byte("Basic authentication with passwords is deprecated")) {
		return nil, ErrBadAPIKey
	}

	var list []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode project list: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrBadEmail
	}

	projects := make([]models.ProjectRef, 0, len(list))
	for _, p := range list {
		projects = append(projects, models.ProjectRef{ID: p.ID, Name: p.Name})
	}
	return projects, nil
}

// RegisterWebhook creates a webhook pointing at callbackURL for all issue
// and comment events and returns its self link for later health checks.
func (c *Client) RegisterWebhook(ctx context.Context, baseURL, email, apiKey, callbackURL string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"name": "atlascon relay",
		"url":  callbackURL,
		"events": []string{
			"jira:issue_created", "jira:issue_updated", "jira:issue_deleted",
			"comment_created", "comment_updated", "comment_deleted",
		},
		"excludeBody": false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		baseURL+"/rest/webhooks/1.0/webhook", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(email, apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("register webhook: HTTP %d", resp.StatusCode)
	}

	var created struct {
		Self string `json:"self"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode webhook response: %w", err)
	}
	if strings.TrimSpace(created.Self) == "" {
		return "", errors.New("webhook response missing self link")
	}
	return created.Self, nil
}

// CheckWebhook verifies the registration still exists.
func (c *Client) CheckWebhook(ctx context.Context, webhookURL, email, apiKey string) error {
	_, err := c.get(ctx, webhookURL, email, apiKey)
	return err
}

// DeleteWebhook removes the registration; used when a user account is
// deleted. Best effort at the caller's discretion.
func (c *Client) DeleteWebhook(ctx context.Context, webhookURL, email, apiKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, webhookURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(email, apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete webhook: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url, email, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(email, apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
