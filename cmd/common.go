package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/booklingua/booklingua/internal/common"
	"github.com/booklingua/booklingua/internal/engine"
	"github.com/booklingua/booklingua/internal/engine/anthropic"
	"github.com/booklingua/booklingua/internal/engine/gemini"
	"github.com/booklingua/booklingua/internal/mailer"
	"github.com/booklingua/booklingua/internal/pipeline"
	"github.com/booklingua/booklingua/internal/repository"
	"github.com/booklingua/booklingua/internal/workflow"
)

// app bundles everything a command needs: config, database, and the
// translation job with its collaborators.
type app struct {
	cfg    *common.Config
	db     *repository.DB
	orders repository.OrderRepository
	files  repository.FileRepository
	job    *pipeline.Job
	log    *slog.Logger

	closers []func()
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildApp loads config, opens and migrates the database, and assembles the
// translation job. Call close() when done.
func buildApp(ctx context.Context) (*app, error) {
	logger := newLogger()

	cfg, err := common.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger}

	db, err := repository.Open(ctx, repository.Config{
		Driver:           cfg.Database.Driver,
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if err := db.Migrate(ctx); err != nil {
		a.close()
		return nil, err
	}

	eng, err := a.buildEngine(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	a.orders = repository.NewOrderRepository(db.SQL, logger)
	a.files = repository.NewFileRepository(db.SQL, logger)
	steps := repository.NewStepRepository(db.SQL, logger)

	runner := workflow.NewRunner(steps, logger,
		workflow.WithMaxAttempts(cfg.Pipeline.StepAttempts))
	notifier := mailer.NewResend(cfg.Mail.APIKey, cfg.Mail.From, logger)

	a.job = pipeline.NewJob(a.orders, a.files, eng, notifier, runner, pipeline.Config{
		TranslateModel: cfg.Engine.TranslateModel,
		EditorialModel: cfg.Engine.EditorialModel,
		MaxTokens:      cfg.Engine.MaxTokens,
		BaseURL:        cfg.Pipeline.BaseURL,
		OperatorEmail:  cfg.Mail.OperatorEmail,
	}, logger)

	return a, nil
}

func (a *app) buildEngine(ctx context.Context) (engine.Engine, error) {
	switch a.cfg.Engine.Provider {
	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:  a.cfg.Engine.APIKey,
			BaseURL: a.cfg.Engine.BaseURL,
			Timeout: a.cfg.Engine.Timeout,
		}, a.log), nil
	case "gemini":
		client, err := gemini.NewClient(ctx, a.cfg.Engine.APIKey, a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported engine provider %q", a.cfg.Engine.Provider)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
