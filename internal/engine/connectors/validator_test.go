package connectors

import (
	"strings"
	"testing"

	"atlascon/internal/platform/models"
)

func validConnector() *models.Connector {
	return &models.Connector{
		Name:            "team-alerts",
		ChannelType:     models.ChannelTelegram,
		Credential:      "123456:bot-token",
		Destination:     "-1001234567890",
		Active:          true,
		Projects:        []models.ProjectRef{{ID: "10001", Name: "Platform"}},
		EventCategories: []string{"jira:issue_created", "comment_created"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Connector)
		wantErr string
	}{
		{
			name:   "Valid connector",
			mutate: func(c *models.Connector) {},
		},
		{
			name:    "Empty name",
			mutate:  func(c *models.Connector) { c.Name = "  " },
			wantErr: "name must not be empty",
		},
		{
			name:    "Unknown channel type",
			mutate:  func(c *models.Connector) { c.ChannelType = "pager" },
			wantErr: "unknown channel type",
		},
		{
			name:    "Missing credential",
			mutate:  func(c *models.Connector) { c.Credential = "" },
			wantErr: "credential must not be empty",
		},
		{
			name: "WhatsApp needs no credential",
			mutate: func(c *models.Connector) {
				c.ChannelType = models.ChannelWhatsApp
				c.Credential = ""
				c.Destination = "+628123456789"
			},
		},
		{
			name: "Slack needs no destination",
			mutate: func(c *models.Connector) {
				c.ChannelType = models.ChannelSlack
				c.Credential = "https://hooks.slack.com/services/T/B/x"
				c.Destination = ""
			},
		},
		{
			name:    "Missing destination",
			mutate:  func(c *models.Connector) { c.Destination = "" },
			wantErr: "destination must not be empty",
		},
		{
			name:    "Unknown event category",
			mutate:  func(c *models.Connector) { c.EventCategories = []string{"sprint_started"} },
			wantErr: "unknown event category",
		},
		{
			name: "Valid schedule window",
			mutate: func(c *models.Connector) {
				c.ScheduleEnabled = true
				c.Duration = "09:00-17:00"
			},
		},
		{
			name: "Wraparound schedule window",
			mutate: func(c *models.Connector) {
				c.ScheduleEnabled = true
				c.Duration = "22:00-06:00"
			},
		},
		{
			name: "Malformed schedule window",
			mutate: func(c *models.Connector) {
				c.ScheduleEnabled = true
				c.Duration = "9am to 5pm"
			},
			wantErr: "schedule window",
		},
		{
			name: "Schedule disabled ignores window",
			mutate: func(c *models.Connector) {
				c.ScheduleEnabled = false
				c.Duration = "garbage"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con := validConnector()
			tt.mutate(con)

			err := Validate(con)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	start, end, err := ParseWindow("09:30-17:45")
	if err != nil {
		t.Fatalf("ParseWindow failed: %v", err)
	}
	if start.Hour() != 9 || start.Minute() != 30 {
		t.Errorf("Expected start 09:30, got %02d:%02d", start.Hour(), start.Minute())
	}
	if end.Hour() != 17 || end.Minute() != 45 {
		t.Errorf("Expected end 17:45, got %02d:%02d", end.Hour(), end.Minute())
	}
}
