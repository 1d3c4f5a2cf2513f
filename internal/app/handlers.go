package app

import (
	"github.com/yungbote/coursecards-backend/internal/domain"
	httpH "github.com/yungbote/coursecards-backend/internal/http/handlers"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Course *httpH.CourseHandler
	Card   *httpH.CardHandler
	Media  *httpH.MediaHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(httpH.ServiceInfo{
			Name:        ServiceName,
			Version:     cfg.Version,
			Environment: cfg.Environment,
			ObjectStore: clients.Backend,
			CardTypes:   domain.BuildableCardTypes,
			Speech:      clients.Speech != nil,
			Images:      clients.Images != nil,
		}),
		Course: httpH.NewCourseHandler(log, services.Course),
		Card:   httpH.NewCardHandler(log, services.Card),
		Media:  httpH.NewMediaHandler(log, services.Media),
	}
}
