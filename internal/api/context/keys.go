package context

type contextKey string

const (
	// Params carries the httprouter path parameters.
	Params contextKey = "params"
	// Claims carries the authenticated user's token claims.
	Claims contextKey = "claims"
)
