package app

import (
	server "github.com/yungbote/coursecards-backend/internal/http"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *server.Server {
	return server.NewServer(server.RouterConfig{
		Log:           log,
		Metrics:       metrics,
		ServiceName:   cfg.Otel.ServiceName,
		Tracing:       cfg.Otel.Enabled,
		CORSOrigins:   cfg.CORSOrigins,
		HealthHandler: handlers.Health,
		CourseHandler: handlers.Course,
		CardHandler:   handlers.Card,
		MediaHandler:  handlers.Media,
	})
}
