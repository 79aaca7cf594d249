package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "atlascon/internal/api/context"
	"atlascon/internal/api/handlers"
	"atlascon/internal/api/middleware"
)

type Dependencies struct {
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	ConnectorHandler *handlers.ConnectorHandler
	ProjectHandler   *handlers.ProjectHandler
	EventHandler     *handlers.EventHandler
	AuthMiddleware   *middleware.AuthMiddleware
	SourceMiddleware *middleware.SourceMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	// Authentication
	router.POST("/api/v1/auth/signup", wrap(deps.AuthHandler.Signup))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))

	authMid := deps.AuthMiddleware
	sourceMid := deps.SourceMiddleware

	// Account
	router.GET("/api/v1/users/me", chain(deps.UserHandler.Me, authMid.Handle))
	router.PUT("/api/v1/users/me/jira", chain(deps.UserHandler.RegisterJira, authMid.Handle))
	router.DELETE("/api/v1/users/me", chain(deps.UserHandler.Delete, authMid.Handle))

	// Jira projects
	router.GET("/api/v1/projects", chain(deps.ProjectHandler.List, authMid.Handle))

	// Connector management
	router.POST("/api/v1/connectors", chain(deps.ConnectorHandler.Create, authMid.Handle))
	router.GET("/api/v1/connectors", chain(deps.ConnectorHandler.List, authMid.Handle))
	router.GET("/api/v1/connectors/:name", chain(deps.ConnectorHandler.Get, authMid.Handle))
	router.PUT("/api/v1/connectors/:name", chain(deps.ConnectorHandler.Update, authMid.Handle))
	router.DELETE("/api/v1/connectors/:name", chain(deps.ConnectorHandler.Delete, authMid.Handle))
	router.GET("/api/v1/connectors/:name/log", chain(deps.ConnectorHandler.GetLog, authMid.Handle))

	// Inbound webhook events (authenticated by source, not by token)
	router.POST("/api/v1/events/jira/:tenant_id", chain(deps.EventHandler.Receive, sourceMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
