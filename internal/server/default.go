package server

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/gcdevops/geds-sync/modules/directory/presentation/controllers"
	"github.com/gcdevops/geds-sync/modules/directory/services"
	"github.com/gcdevops/geds-sync/pkg/configuration"
	"github.com/gcdevops/geds-sync/pkg/httpapi"
	"github.com/gcdevops/geds-sync/pkg/middleware"
	"github.com/gcdevops/geds-sync/pkg/server"
)

type DefaultOptions struct {
	Logger   *logrus.Logger
	Server   configuration.ServerOptions
	Snapshot *services.Prepared
	BuiltAt  time.Time
	Registry *prometheus.Registry
}

// Default assembles the read-only API over one prepared snapshot.
func Default(options *DefaultOptions) *server.HTTPServer {
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.Cors(options.Server.CORSOrigins...),
	}
	if options.Server.RateLimitPerMinute > 0 {
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: options.Server.RateLimitPerMinute,
			Store:             middleware.NewMemoryStore(),
		}))
	}

	return server.NewHTTPServer(
		[]server.Controller{
			controllers.NewDirectoryController(options.Snapshot),
			controllers.NewOpsController(options.Snapshot, options.BuiltAt, options.Registry),
		},
		middlewares,
		httpapi.NotFound(),
		httpapi.MethodNotAllowed(),
	)
}
