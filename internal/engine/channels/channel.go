package channels

import (
	"context"
	"net/http"
	"time"

	"atlascon/internal/platform/config"
	"atlascon/internal/platform/models"
)

// Channel delivers one rendered notification text through an external
// messaging service. Implementations are bound to a single connector's
// credential and destination.
type Channel interface {
	// Send delivers the text. One call is one attempt; retry is the
	// dispatcher's concern.
	Send(ctx context.Context, text string) error

	// Validate performs a lightweight test call to confirm the
	// credential and destination before a connector is persisted.
	Validate(ctx context.Context) error

	Type() models.ChannelType
}

// Factory builds the channel adapter for a connector. It owns the shared
// HTTP client and the service-level WhatsApp gateway credentials.
type Factory struct {
	client   *http.Client
	whatsapp config.WhatsAppConfig
}

func NewFactory(cfg config.DispatchConfig, wa config.WhatsAppConfig) *Factory {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Factory{
		client:   &http.Client{Timeout: timeout},
		whatsapp: wa,
	}
}

// For returns the adapter for the connector's channel type, or nil when
// the type is not supported.
func (f *Factory) For(con *models.Connector) Channel {
	switch con.ChannelType {
	case models.ChannelTelegram:
		return &Telegram{Token: con.Credential, ChatID: con.Destination, Client: f.client}
	case models.ChannelSlack:
		return &Slack{WebhookURL: con.Credential, Client: f.client}
	case models.ChannelWhatsApp:
		return &WhatsApp{
			AccountSID: f.whatsapp.AccountSID,
			AuthToken:  f.whatsapp.AuthToken,
			From:       f.whatsapp.From,
			To:         con.Destination,
			Client:     f.client,
		}
	}
	return nil
}
