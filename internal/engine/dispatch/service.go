package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"atlascon/internal/engine/events"
	"atlascon/internal/platform/models"
)

// Results returned to the inbound webhook boundary.
const (
	ResultProcessed = "Event processed"
	ResultNoMatch   = "No Connector Related Found"
)

// ConnectorSource supplies the tenant's connector definitions. The
// dispatch core only ever reads them.
type ConnectorSource interface {
	List(ctx context.Context, tenantID string) ([]models.Connector, error)
}

// Service is the event-to-notification pipeline: normalize, match,
// render, dispatch per connector, record.
type Service struct {
	source     ConnectorSource
	dispatcher *Dispatcher
	loc        *time.Location
	now        func() time.Time
}

func NewService(source ConnectorSource, dispatcher *Dispatcher, utcOffsetHours int) *Service {
	return &Service{
		source:     source,
		dispatcher: dispatcher,
		loc:        time.FixedZone(fmt.Sprintf("UTC+%d", utcOffsetHours), utcOffsetHours*3600),
		now:        time.Now,
	}
}

// ProcessEvent handles one inbound webhook call for a tenant. Failures of
// individual connectors are isolated to their delivery logs; only a
// failure to fetch the connector list aborts the whole dispatch.
func (s *Service) ProcessEvent(ctx context.Context, tenantID string, raw []byte) (string, error) {
	ev := events.Normalize(raw)

	if ev.Category == models.CategoryUnknown {
		log.Info().Str("tenant", tenantID).Msg("unrecognized webhook event, nothing to dispatch")
		return ResultNoMatch, nil
	}

	cons, err := s.source.List(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("fetch connectors: %w", err)
	}

	matched := Match(cons, ev.ProjectID, ev.Category, s.now().In(s.loc))
	if len(matched) == 0 {
		return ResultNoMatch, nil
	}

	text := Render(ev)
	displayTime := DisplayTime(ev.Timestamp, s.loc)

	// Each connector talks to a distinct external service, so they fan
	// out concurrently and join before the handler responds.
	var wg sync.WaitGroup
	for i := range matched {
		con := matched[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.dispatcher.Dispatch(ctx, tenantID, &con, ev, text, displayTime)
		}()
	}
	wg.Wait()

	return ResultProcessed, nil
}
