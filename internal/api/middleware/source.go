package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"atlascon/internal/pkg/errors"
)

// SourceMiddleware gates the inbound event endpoint on the webhook
// sender's User-Agent so that arbitrary POSTs do not reach dispatch.
type SourceMiddleware struct {
	userAgent string
}

func NewSourceMiddleware(userAgent string) *SourceMiddleware {
	return &SourceMiddleware{userAgent: userAgent}
}

func (m *SourceMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != m.userAgent {
			log.Debug().Str("user_agent", r.UserAgent()).Msg("rejected event from unexpected source")
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Unexpected webhook source", nil)
			return
		}
		next(w, r)
	}
}
