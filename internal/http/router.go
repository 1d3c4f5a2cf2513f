package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursecards-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursecards-backend/internal/http/middleware"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	Tracing     bool
	CORSOrigins []string

	HealthHandler *httpH.HealthHandler
	CourseHandler *httpH.CourseHandler
	CardHandler   *httpH.CardHandler
	MediaHandler  *httpH.MediaHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/info", cfg.HealthHandler.Info)
		}

		// Courses
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.CreateCourse)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.GET("/courses/:id/cards", cfg.CourseHandler.ListCards)
			api.GET("/courses/:id/overview", cfg.CourseHandler.Overview)
		}

		// Cards
		if cfg.CardHandler != nil {
			api.POST("/courses/:id/cards/:cardType", cfg.CardHandler.CreateCard)
			api.POST("/cards/validate", cfg.CardHandler.Validate)
			api.GET("/cards/:id", cfg.CardHandler.GetCard)
			api.PATCH("/cards/:id", cfg.CardHandler.UpdateCard)
			api.POST("/cards/:id/merge-preview", cfg.CardHandler.MergePreview)
		}

		// Media. Each route is one stage.
		if cfg.MediaHandler != nil {
			api.POST("/media/speech", cfg.MediaHandler.Speech)
			api.POST("/media/image", cfg.MediaHandler.Image)
			api.POST("/media/store", cfg.MediaHandler.Store)
		}
	}

	return r
}
