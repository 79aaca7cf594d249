package models

import "time"

type ChannelType string

const (
	ChannelTelegram ChannelType = "telegram"
	ChannelSlack    ChannelType = "slack"
	ChannelWhatsApp ChannelType = "whatsapp"
)

// ProjectRef is one Jira project a connector subscribes to.
type ProjectRef struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Connector is a tenant-owned notification subscription. One YAML document
// per connector is stored in the object store under
// connectors/{tenant}/{name}.yml. The dispatch path only ever reads these.
type Connector struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	ChannelType ChannelType `yaml:"channel_type" json:"channel_type"`
	// Credential is the bot token (telegram) or webhook URL (slack).
	// The WhatsApp gateway authenticates with service-level credentials.
	Credential  string `yaml:"credential" json:"credential"`
	Destination string `yaml:"destination" json:"destination"`
	Active      bool   `yaml:"active" json:"active"`

	ScheduleEnabled bool `yaml:"schedule_enabled" json:"schedule_enabled"`
	// Duration is the local time-of-day window "HH:MM-HH:MM" during which
	// the connector accepts notifications. May wrap past midnight.
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`

	Projects        []ProjectRef `yaml:"projects" json:"projects"`
	EventCategories []string     `yaml:"event_categories" json:"event_categories"`

	CreatedAt time.Time  `yaml:"created_at" json:"created_at"`
	UpdatedAt *time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SubscribesTo reports whether the connector covers the given project id
// and wire-format event category.
func (c *Connector) SubscribesTo(projectID, category string) bool {
	inProject := false
	for _, p := range c.Projects {
		if p.ID == projectID {
			inProject = true
			break
		}
	}
	if !inProject {
		return false
	}
	for _, ev := range c.EventCategories {
		if ev == category {
			return true
		}
	}
	return false
}
