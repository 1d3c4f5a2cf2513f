package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/platform/courseapi"
	"github.com/yungbote/coursecards-backend/internal/platform/elevenlabs"
	"github.com/yungbote/coursecards-backend/internal/platform/openai"
	"github.com/yungbote/coursecards-backend/internal/services"
)

const upstreamTracer = "github.com/yungbote/coursecards-backend/upstream"

// observe wraps one upstream call with a span and the cc_upstream_* series.
func observe(ctx context.Context, metrics *observability.Metrics, service, operation string, fn func(ctx context.Context) (int, error)) error {
	ctx, span := otel.Tracer(upstreamTracer).Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.service", service),
			attribute.String("upstream.operation", operation),
		),
	)
	defer span.End()

	start := time.Now()
	n, err := fn(ctx)
	metrics.ObserveUpstream(service, operation, err, time.Since(start), n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if n > 0 {
		span.SetAttributes(attribute.Int("upstream.bytes", n))
	}
	return err
}

type instrumentedCourseAPI struct {
	inner   services.CourseAPI
	metrics *observability.Metrics
}

func newInstrumentedCourseAPI(inner services.CourseAPI, metrics *observability.Metrics) services.CourseAPI {
	if inner == nil {
		return nil
	}
	return &instrumentedCourseAPI{inner: inner, metrics: metrics}
}

func (a *instrumentedCourseAPI) GetCourse(ctx context.Context, id string) (out *domain.Course, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "get_course", func(ctx context.Context) (int, error) {
		out, err = a.inner.GetCourse(ctx, id)
		return 0, err
	})
	return out, err
}

func (a *instrumentedCourseAPI) CreateCourse(ctx context.Context, c domain.Course) (out *domain.Course, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "create_course", func(ctx context.Context) (int, error) {
		out, err = a.inner.CreateCourse(ctx, c)
		return 0, err
	})
	return out, err
}

func (a *instrumentedCourseAPI) ListCards(ctx context.Context, courseID string) (out []domain.Card, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "list_cards", func(ctx context.Context) (int, error) {
		out, err = a.inner.ListCards(ctx, courseID)
		return 0, err
	})
	return out, err
}

func (a *instrumentedCourseAPI) GetCard(ctx context.Context, id string) (out *domain.Card, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "get_card", func(ctx context.Context) (int, error) {
		out, err = a.inner.GetCard(ctx, id)
		return 0, err
	})
	return out, err
}

func (a *instrumentedCourseAPI) CreateCard(ctx context.Context, c domain.CardCreate) (out *domain.Card, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "create_card", func(ctx context.Context) (int, error) {
		out, err = a.inner.CreateCard(ctx, c)
		return 0, err
	})
	return out, err
}

func (a *instrumentedCourseAPI) UpdateCard(ctx context.Context, id string, u domain.CardUpdate) (out *domain.Card, err error) {
	err = observe(ctx, a.metrics, courseapi.ServiceName, "update_card", func(ctx context.Context) (int, error) {
		out, err = a.inner.UpdateCard(ctx, id, u)
		return 0, err
	})
	return out, err
}

type instrumentedSpeech struct {
	inner   media.SpeechSynthesizer
	metrics *observability.Metrics
}

func (s *instrumentedSpeech) Synthesize(ctx context.Context, text string) (out []byte, err error) {
	err = observe(ctx, s.metrics, elevenlabs.ServiceName, "synthesize", func(ctx context.Context) (int, error) {
		out, err = s.inner.Synthesize(ctx, text)
		return len(out), err
	})
	return out, err
}

type instrumentedImages struct {
	inner   media.ImageGenerator
	metrics *observability.Metrics
}

func (g *instrumentedImages) GenerateImage(ctx context.Context, prompt, size, format string) (out []byte, err error) {
	err = observe(ctx, g.metrics, openai.ServiceName, "generate", func(ctx context.Context) (int, error) {
		out, err = g.inner.GenerateImage(ctx, prompt, size, format)
		return len(out), err
	})
	return out, err
}

type instrumentedStore struct {
	inner   media.ObjectStore
	backend string
	metrics *observability.Metrics
}

func (s *instrumentedStore) Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error) {
	err = observe(ctx, s.metrics, media.ServiceStore, "put_"+s.backend, func(ctx context.Context) (int, error) {
		url, err = s.inner.Put(ctx, key, data, contentType)
		if err != nil {
			return 0, err
		}
		return len(data), nil
	})
	return url, err
}

// instrumentMedia wraps whichever media dependencies are configured. Missing
// ones stay untyped nil so the pipeline reports them as unconfigured.
func instrumentMedia(metrics *observability.Metrics, backend string, speech media.SpeechSynthesizer, images media.ImageGenerator, store media.ObjectStore) (media.SpeechSynthesizer, media.ImageGenerator, media.ObjectStore) {
	var (
		sp media.SpeechSynthesizer
		im media.ImageGenerator
		st media.ObjectStore
	)
	if speech != nil {
		sp = &instrumentedSpeech{inner: speech, metrics: metrics}
	}
	if images != nil {
		im = &instrumentedImages{inner: images, metrics: metrics}
	}
	if store != nil {
		st = &instrumentedStore{inner: store, backend: backend, metrics: metrics}
	}
	return sp, im, st
}
