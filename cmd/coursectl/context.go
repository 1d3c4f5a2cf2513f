package main

import (
	"context"
	"fmt"

	"github.com/yungbote/coursecards-backend/internal/app"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
)

type commandContext struct {
	envFile *string
	verbose *bool

	cfg    app.Config
	loaded bool
}

func newCommandContext(envFile *string, verbose *bool) *commandContext {
	return &commandContext{envFile: envFile, verbose: verbose}
}

func (c *commandContext) loadEnv() error {
	if c.loaded {
		return nil
	}
	path := ".env"
	if c.envFile != nil && *c.envFile != "" {
		path = *c.envFile
	}
	if err := app.LoadDotEnv(path); err != nil {
		return err
	}
	c.cfg = app.LoadConfig()
	c.loaded = true
	return nil
}

func (c *commandContext) logger() (*logger.Logger, error) {
	if c.verbose == nil || !*c.verbose {
		return logger.NewNop(), nil
	}
	return logger.NewWithOptions(logger.Options{Mode: "development", Level: c.cfg.LogLevel, Redact: true})
}

func (c *commandContext) stamper() (*stamp.Stamper, error) {
	st, err := stamp.New(c.cfg.Timezone, c.cfg.Provenance)
	if err != nil {
		return nil, fmt.Errorf("init stamper: %w", err)
	}
	return st, nil
}

// withPipeline runs fn against a media pipeline built from the environment.
func (c *commandContext) withPipeline(ctx context.Context, fn func(p *app.MediaPipeline) error) error {
	log, err := c.logger()
	if err != nil {
		return err
	}
	defer log.Sync()
	p, err := app.NewMediaPipeline(ctx, log, c.cfg)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}
