package channels

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"atlascon/internal/platform/models"
)

const twilioAPIBase = "https://api.twilio.com"

// WhatsApp sends messages through the Twilio gateway. The account
// credentials and sender number are service-level configuration; only the
// destination number comes from the connector.
type WhatsApp struct {
	AccountSID string
	AuthToken  string
	From       string // e.g. "+14155238886"
	To         string
	BaseURL    string // defaults to the Twilio API
	Client     *http.Client
}

func (w *WhatsApp) Type() models.ChannelType { return models.ChannelWhatsApp }

func (w *WhatsApp) Send(ctx context.Context, text string) error {
	base := w.BaseURL
	if base == "" {
		base = twilioAPIBase
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", base, w.AccountSID)

	form := url.Values{}
	form.Set("From", "whatsapp:"+w.From)
	form.Set("To", "whatsapp:"+w.To)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(w.AccountSID, w.AuthToken)

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway: HTTP %d", resp.StatusCode)
	}
	return nil
}

func (w *WhatsApp) Validate(ctx context.Context) error {
	return w.Send(ctx, "This is a connection test message")
}
