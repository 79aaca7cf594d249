package channels

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"atlascon/internal/platform/models"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends messages through the Bot API using the connector's bot
// token and chat id.
type Telegram struct {
	Token   string
	ChatID  string
	BaseURL string // defaults to the public Bot API
	Client  *http.Client
}

func (t *Telegram) Type() models.ChannelType { return models.ChannelTelegram }

func (t *Telegram) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": t.ChatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	return t.call(ctx, "sendMessage", body)
}

// Validate confirms the bot token with getMe and the chat id with getChat,
// mirroring what a connector update requires before persisting.
func (t *Telegram) Validate(ctx context.Context) error {
	if err := t.call(ctx, "getMe", nil); err != nil {
		return fmt.Errorf("bot token invalid: %w", err)
	}
	body, err := json.Marshal(map[string]string{"chat_id": t.ChatID})
	if err != nil {
		return err
	}
	if err := t.call(ctx, "getChat", body); err != nil {
		return fmt.Errorf("chat id invalid (bot not invited?): %w", err)
	}
	return nil
}

func (t *Telegram) call(ctx context.Context, method string, body []byte) error {
	base := t.BaseURL
	if base == "" {
		base = telegramAPIBase
	}
	url := fmt.Sprintf("%s/bot%s/%s", base, t.Token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telegram %s: HTTP %d", method, resp.StatusCode)
	}
	return nil
}
