package channels

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"atlascon/internal/platform/config"
	"atlascon/internal/platform/models"
)

type captured struct {
	method string
	path   string
	body   string
	header http.Header
}

func captureServer(t *testing.T, status int, calls *[]captured) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*calls = append(*calls, captured{
			method: r.Method,
			path:   r.URL.Path,
			body:   string(body),
			header: r.Header.Clone(),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTelegram_Send(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusOK, &calls)

	tg := &Telegram{Token: "123:abc", ChatID: "-100555", BaseURL: server.URL, Client: server.Client()}
	if err := tg.Send(context.Background(), "hello from jira"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	if calls[0].path != "/bot123:abc/sendMessage" {
		t.Errorf("Expected bot token in path, got %s", calls[0].path)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(calls[0].body), &payload); err != nil {
		t.Fatalf("Body is not JSON: %v", err)
	}
	if payload["chat_id"] != "-100555" || payload["text"] != "hello from jira" {
		t.Errorf("Unexpected payload: %v", payload)
	}
}

func TestTelegram_SendServerError(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusUnauthorized, &calls)

	tg := &Telegram{Token: "bad", ChatID: "1", BaseURL: server.URL, Client: server.Client()}
	if err := tg.Send(context.Background(), "x"); err == nil {
		t.Fatal("Expected error on HTTP 401")
	}
}

func TestTelegram_Validate(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusOK, &calls)

	tg := &Telegram{Token: "123:abc", ChatID: "-100555", BaseURL: server.URL, Client: server.Client()}
	if err := tg.Validate(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("Expected getMe and getChat, got %d calls", len(calls))
	}
	if !strings.HasSuffix(calls[0].path, "/getMe") {
		t.Errorf("Expected first call to getMe, got %s", calls[0].path)
	}
	if !strings.HasSuffix(calls[1].path, "/getChat") {
		t.Errorf("Expected second call to getChat, got %s", calls[1].path)
	}
}

func TestSlack_Send(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusOK, &calls)

	sl := &Slack{WebhookURL: server.URL + "/services/T/B/x", Client: server.Client()}
	if err := sl.Send(context.Background(), "deploy done"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/services/T/B/x" {
		t.Errorf("Expected POST to webhook path, got %s %s", calls[0].method, calls[0].path)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(calls[0].body), &payload); err != nil {
		t.Fatalf("Body is not JSON: %v", err)
	}
	if payload["text"] != "deploy done" {
		t.Errorf("Unexpected payload: %v", payload)
	}
}

func TestSlack_ValidateSendsTestMessage(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusOK, &calls)

	sl := &Slack{WebhookURL: server.URL, Client: server.Client()}
	if err := sl.Validate(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(calls) != 1 || !strings.Contains(calls[0].body, "connection test message") {
		t.Errorf("Expected a test message post, got %+v", calls)
	}
}

func TestWhatsApp_Send(t *testing.T) {
	var calls []captured
	server := captureServer(t, http.StatusCreated, &calls)

	wa := &WhatsApp{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
		To:         "+628123456789",
		BaseURL:    server.URL,
		Client:     server.Client(),
	}
	if err := wa.Send(context.Background(), "issue updated"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	call := calls[0]
	if call.path != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("Unexpected path %s", call.path)
	}
	if got := call.header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Expected form content type, got %s", got)
	}

	auth := call.header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		t.Errorf("Expected basic auth, got %q", auth)
	}

	for _, want := range []string{"From=whatsapp%3A%2B14155238886", "To=whatsapp%3A%2B628123456789", "Body=issue+updated"} {
		if !strings.Contains(call.body, want) {
			t.Errorf("Expected form body to contain %q, got %s", want, call.body)
		}
	}
}

func TestFactory_For(t *testing.T) {
	factory := NewFactory(config.DispatchConfig{}, config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
	})

	tests := []struct {
		name string
		con  models.Connector
		want models.ChannelType
	}{
		{
			name: "Telegram",
			con:  models.Connector{ChannelType: models.ChannelTelegram, Credential: "tok", Destination: "-100"},
			want: models.ChannelTelegram,
		},
		{
			name: "Slack",
			con:  models.Connector{ChannelType: models.ChannelSlack, Credential: "https://hooks.slack.com/x"},
			want: models.ChannelSlack,
		},
		{
			name: "WhatsApp",
			con:  models.Connector{ChannelType: models.ChannelWhatsApp, Destination: "+628123456789"},
			want: models.ChannelWhatsApp,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := factory.For(&tt.con)
			if ch == nil {
				t.Fatal("Expected a channel adapter")
			}
			if ch.Type() != tt.want {
				t.Errorf("Expected type %s, got %s", tt.want, ch.Type())
			}
		})
	}

	if ch := factory.For(&models.Connector{ChannelType: "pager"}); ch != nil {
		t.Errorf("Expected nil for unknown channel type, got %T", ch)
	}
}

func TestFactory_WhatsAppCarriesServiceCredentials(t *testing.T) {
	factory := NewFactory(config.DispatchConfig{}, config.WhatsAppConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
	})

	ch := factory.For(&models.Connector{ChannelType: models.ChannelWhatsApp, Destination: "+628123456789"})
	wa, ok := ch.(*WhatsApp)
	if !ok {
		t.Fatalf("Expected *WhatsApp, got %T", ch)
	}
	if wa.AccountSID != "AC123" || wa.From != "+14155238886" || wa.To != "+628123456789" {
		t.Errorf("Unexpected adapter wiring: %+v", wa)
	}
}
