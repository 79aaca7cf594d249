package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"atlascon/internal/engine/channels"
	"atlascon/internal/engine/logs"
	"atlascon/internal/platform/models"
)

const maxAttempts = 3

// Outcome is the terminal state of one connector's attempt-cycle.
type Outcome struct {
	Status   models.DeliveryStatus
	Attempts int
	// Skipped is set when the channel type is unsupported; no attempts
	// were made and nothing was logged.
	Skipped bool
}

// Dispatcher sends a rendered message through one connector's channel
// with bounded retry and records the final outcome in the delivery log.
type Dispatcher struct {
	factory  *channels.Factory
	recorder *logs.Recorder
}

func NewDispatcher(factory *channels.Factory, recorder *logs.Recorder) *Dispatcher {
	return &Dispatcher{factory: factory, recorder: recorder}
}

// Dispatch runs up to maxAttempts sends back to back (no backoff; each
// attempt carries the HTTP client's own timeout) and appends exactly one
// log entry with the final status and the attempt count reached. A log
// write failure cannot roll back a delivered message, so it is only
// reported.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID string, con *models.Connector, ev models.Event, text, displayTime string) Outcome {
	ch := d.factory.For(con)
	if ch == nil {
		log.Warn().
			Str("connector", con.Name).
			Str("channel_type", string(con.ChannelType)).
			Msg("unsupported channel type, skipping dispatch")
		return Outcome{Skipped: true}
	}

	status := models.DeliveryFailed
	attempt := 0
	for attempt < maxAttempts {
		attempt++
		err := ch.Send(ctx, text)
		if err == nil {
			status = models.DeliverySent
			break
		}
		log.Debug().
			Str("connector", con.Name).
			Int("attempt", attempt).
			Err(err).
			Msg("channel send failed")
	}

	entry := models.DeliveryLogEntry{
		Event:   string(ev.Category),
		Status:  status,
		Attempt: attempt,
		Time:    displayTime,
	}
	if err := d.recorder.Append(ctx, tenantID, con.Name, entry); err != nil {
		log.Error().
			Str("connector", con.Name).
			Err(err).
			Msg("failed to record delivery outcome")
	}

	return Outcome{Status: status, Attempts: attempt}
}

// DisplayTime formats an event timestamp (epoch millis) in the tenant's
// local offset the way log entries and message footers show it.
func DisplayTime(millis int64, loc *time.Location) string {
	return time.UnixMilli(millis).In(loc).Format("02/01/2006 15:04")
}
