package channels

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"atlascon/internal/platform/models"
)

// Slack posts messages to an incoming-webhook URL held in the connector
// credential.
type Slack struct {
	WebhookURL string
	Client     *http.Client
}

func (s *Slack) Type() models.ChannelType { return models.ChannelSlack }

func (s *Slack) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack webhook: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (s *Slack) Validate(ctx context.Context) error {
	return s.Send(ctx, "This is a connection test message")
}
