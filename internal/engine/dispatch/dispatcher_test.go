package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"atlascon/internal/engine/channels"
	"atlascon/internal/engine/logs"
	"atlascon/internal/platform/config"
	"atlascon/internal/platform/models"
	"atlascon/internal/platform/storage"
)

func newTestDispatcher() (*Dispatcher, *logs.Recorder) {
	factory := channels.NewFactory(config.DispatchConfig{}, config.WhatsAppConfig{})
	recorder := logs.NewRecorder(storage.NewMemStore())
	return NewDispatcher(factory, recorder), recorder
}

func slackConnector(url string) *models.Connector {
	return &models.Connector{
		Name:        "team-alerts",
		ChannelType: models.ChannelSlack,
		Credential:  url,
		Active:      true,
	}
}

func TestDispatch_FirstAttemptSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d, recorder := newTestDispatcher()
	ev := models.Event{Category: models.CategoryCommentCreated, Timestamp: 1700000000000}

	outcome := d.Dispatch(context.Background(), "tenant1", slackConnector(server.URL), ev, "hello", "20/05/2024 12:00")

	if outcome.Status != models.DeliverySent || outcome.Attempts != 1 {
		t.Errorf("Expected sent on attempt 1, got %+v", outcome)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected exactly 1 send, got %d", n)
	}

	entries, err := recorder.Read(context.Background(), "tenant1", "team-alerts")
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Status != models.DeliverySent || entries[0].Attempt != 1 {
		t.Errorf("Unexpected log entry: %+v", entries[0])
	}
	if entries[0].Event != "comment_created" {
		t.Errorf("Expected event comment_created, got %s", entries[0].Event)
	}
}

func TestDispatch_RetryExhaustion(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d, recorder := newTestDispatcher()
	ev := models.Event{Category: models.CategoryIssueCreated}

	outcome := d.Dispatch(context.Background(), "tenant1", slackConnector(server.URL), ev, "hello", "20/05/2024 12:00")

	if outcome.Status != models.DeliveryFailed || outcome.Attempts != 3 {
		t.Errorf("Expected failed after 3 attempts, got %+v", outcome)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Expected exactly 3 sends, got %d", n)
	}

	entries, _ := recorder.Read(context.Background(), "tenant1", "team-alerts")
	if len(entries) != 1 {
		t.Fatalf("Expected exactly 1 log entry regardless of attempts, got %d", len(entries))
	}
	if entries[0].Status != models.DeliveryFailed || entries[0].Attempt != 3 {
		t.Errorf("Unexpected log entry: %+v", entries[0])
	}
}

func TestDispatch_RecoveryOnSecondAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d, _ := newTestDispatcher()
	outcome := d.Dispatch(context.Background(), "tenant1", slackConnector(server.URL),
		models.Event{Category: models.CategoryIssueCreated}, "hello", "20/05/2024 12:00")

	if outcome.Status != models.DeliverySent || outcome.Attempts != 2 {
		t.Errorf("Expected sent on attempt 2, got %+v", outcome)
	}
}

func TestDispatch_UnknownChannelTypeSkips(t *testing.T) {
	d, recorder := newTestDispatcher()
	con := &models.Connector{Name: "legacy", ChannelType: "pager", Active: true}

	outcome := d.Dispatch(context.Background(), "tenant1", con,
		models.Event{Category: models.CategoryIssueCreated}, "hello", "20/05/2024 12:00")

	if !outcome.Skipped {
		t.Errorf("Expected skipped outcome, got %+v", outcome)
	}

	entries, _ := recorder.Read(context.Background(), "tenant1", "legacy")
	if len(entries) != 0 {
		t.Errorf("Expected no log entries for skipped connector, got %d", len(entries))
	}
}

func TestDisplayTime(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 2023-11-14 22:13:20 UTC = 2023-11-15 05:13:20 UTC+7
	got := DisplayTime(1700000000000, loc)
	if got != "15/11/2023 05:13" {
		t.Errorf("Expected 15/11/2023 05:13, got %s", got)
	}
}
