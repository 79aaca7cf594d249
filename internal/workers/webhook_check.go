package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"atlascon/internal/jira"
	"atlascon/internal/platform/repositories"
)

// WebhookChecker periodically verifies that each user's Jira webhook
// registration still exists, re-creating it when it has gone missing and
// recording the health on the user row.
type WebhookChecker struct {
	userRepo    *repositories.UserRepository
	jiraClient  *jira.Client
	callbackURL string
	interval    time.Duration
}

func NewWebhookChecker(userRepo *repositories.UserRepository, jiraClient *jira.Client, callbackURL string, interval time.Duration) *WebhookChecker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &WebhookChecker{
		userRepo:    userRepo,
		jiraClient:  jiraClient,
		callbackURL: callbackURL,
		interval:    interval,
	}
}

// Run blocks until ctx is cancelled.
func (c *WebhookChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAll(ctx)
		}
	}
}

func (c *WebhookChecker) checkAll(ctx context.Context) {
	users, err := c.userRepo.ListWithWebhook()
	if err != nil {
		log.Error().Err(err).Msg("webhook check: failed to list users")
		return
	}

	for _, user := range users {
		functional := c.jiraClient.CheckWebhook(ctx, user.WebhookURL, user.JiraEmail, user.JiraAPIKey) == nil

		if !functional {
			callback := c.callbackURL + "/api/v1/events/jira/" + user.ID
			newURL, err := c.jiraClient.RegisterWebhook(ctx, user.JiraBaseURL, user.JiraEmail, user.JiraAPIKey, callback)
			if err != nil {
				log.Warn().Str("user", user.ID).Err(err).Msg("webhook repair failed")
			} else {
				log.Info().Str("user", user.ID).Msg("webhook re-registered")
				if err := c.userRepo.SetJiraAccount(user.ID, user.JiraEmail, user.JiraAPIKey, user.JiraBaseURL, newURL); err != nil {
					log.Error().Str("user", user.ID).Err(err).Msg("failed to store repaired webhook")
					continue
				}
				functional = true
			}
		}

		if err := c.userRepo.SetWebhookHealth(user.ID, functional, time.Now().Unix()); err != nil {
			log.Error().Str("user", user.ID).Err(err).Msg("failed to record webhook health")
		}
	}
}
