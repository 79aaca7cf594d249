package connectors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"atlascon/internal/platform/models"
)

var validCategories = map[string]bool{
	string(models.CategoryIssueCreated):   true,
	string(models.CategoryIssueUpdated):   true,
	string(models.CategoryIssueDeleted):   true,
	string(models.CategoryCommentCreated): true,
	string(models.CategoryCommentUpdated): true,
	string(models.CategoryCommentDeleted): true,
}

// Validate checks the structural invariants of a connector before it is
// persisted: non-empty name, known channel type and categories, and a
// parseable schedule window when scheduling is enabled.
func Validate(con *models.Connector) error {
	if strings.TrimSpace(con.Name) == "" {
		return errors.New("connector name must not be empty")
	}

	switch con.ChannelType {
	case models.ChannelTelegram, models.ChannelSlack, models.ChannelWhatsApp:
	default:
		return fmt.Errorf("unknown channel type %q", con.ChannelType)
	}

	if con.ChannelType != models.ChannelWhatsApp && con.Credential == "" {
		return errors.New("credential must not be empty")
	}
	if con.ChannelType != models.ChannelSlack && con.Destination == "" {
		return errors.New("destination must not be empty")
	}

	for _, cat := range con.EventCategories {
		if !validCategories[cat] {
			return fmt.Errorf("unknown event category %q", cat)
		}
	}

	if con.ScheduleEnabled {
		if _, _, err := ParseWindow(con.Duration); err != nil {
			return err
		}
	}
	return nil
}

// ParseWindow splits a "HH:MM-HH:MM" schedule window into its bounds.
func ParseWindow(window string) (start, end time.Time, err error) {
	parts := strings.SplitN(window, "-", 2)
	if len(parts) != 2 {
		return start, end, fmt.Errorf("schedule window %q is not of the form HH:MM-HH:MM", window)
	}
	start, err = time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, fmt.Errorf("schedule window start: %w", err)
	}
	end, err = time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, fmt.Errorf("schedule window end: %w", err)
	}
	return start, end, nil
}
