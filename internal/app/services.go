package app

import (
	"fmt"

	"github.com/yungbote/coursecards-backend/internal/modules/cards/builder"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
	"github.com/yungbote/coursecards-backend/internal/services"
)

type Services struct {
	Course services.CourseService
	Card   services.CardService
	Media  services.MediaService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	if clients.CourseAPI == nil {
		return Services{}, errNoCourseAPI
	}
	st, err := stamp.New(cfg.Timezone, cfg.Provenance)
	if err != nil {
		return Services{}, fmt.Errorf("init stamper: %w", err)
	}
	api := newInstrumentedCourseAPI(clients.CourseAPI, metrics)

	return Services{
		Course: services.NewCourseService(log, api, st, cfg.CompanyID),
		Card:   services.NewCardService(log, api, builder.New(st)),
		Media:  services.NewMediaService(log, newPipeline(log, clients, st, cfg.Media, metrics)),
	}, nil
}

func newPipeline(log *logger.Logger, clients Clients, st *stamp.Stamper, cfg media.Config, metrics *observability.Metrics) *media.Pipeline {
	sp, im, store := instrumentMedia(metrics, clients.Backend, clients.Speech, clients.Images, clients.Store)
	return media.NewPipeline(log, sp, im, store, st, cfg)
}
