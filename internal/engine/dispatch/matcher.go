package dispatch

import (
	"time"

	"github.com/rs/zerolog/log"

	"atlascon/internal/engine/connectors"
	"atlascon/internal/platform/models"
)

// Match filters the tenant's connectors down to those that should receive
// the event: active, subscribed to the project and category, and inside
// their schedule window at now. now must already be in tenant-local time.
//
// An empty result is a normal outcome, not an error.
func Match(cons []models.Connector, projectID string, category models.EventCategory, now time.Time) []models.Connector {
	var matched []models.Connector
	for _, con := range cons {
		if !con.Active {
			continue
		}
		if !con.SubscribesTo(projectID, string(category)) {
			continue
		}
		if !inSchedule(&con, now) {
			continue
		}
		matched = append(matched, con)
	}
	return matched
}

func inSchedule(con *models.Connector, now time.Time) bool {
	if !con.ScheduleEnabled {
		return true
	}

	start, end, err := connectors.ParseWindow(con.Duration)
	if err != nil {
		// Validated at CRUD time; a broken window here means a hand-edited
		// document. Fail closed rather than notify out of hours.
		log.Warn().Str("connector", con.Name).Err(err).Msg("unparseable schedule window")
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	s := start.Hour()*60 + start.Minute()
	e := end.Hour()*60 + end.Minute()

	if s <= e {
		return minutes >= s && minutes <= e
	}
	// Window wraps past midnight, e.g. 22:00-06:00. Both bounds inclusive.
	return minutes >= s || minutes <= e
}
