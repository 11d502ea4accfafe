// Package pipeline runs the translation workflow for one paid order: load
// the order and manuscript, then for each requested language a translation
// pass, an editorial pass, and a save, then completion and notifications.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
	"github.com/booklingua/booklingua/internal/engine"
	"github.com/booklingua/booklingua/internal/entity"
	"github.com/booklingua/booklingua/internal/highlight"
	"github.com/booklingua/booklingua/internal/languages"
	"github.com/booklingua/booklingua/internal/mailer"
	"github.com/booklingua/booklingua/internal/repository"
	"github.com/booklingua/booklingua/internal/workflow"
)

// Config holds the job's fixed parameters.
type Config struct {
	TranslateModel string
	EditorialModel string
	MaxTokens      int
	BaseURL        string // public app URL used to build download links
	OperatorEmail  string
}

// Job executes translate-book runs. All collaborators are injected so tests
// can substitute them.
type Job struct {
	orders repository.OrderRepository
	files  repository.FileRepository
	engine engine.Engine
	mailer mailer.Notifier
	runner *workflow.Runner
	cfg    Config
	log    *slog.Logger
}

func NewJob(orders repository.OrderRepository, files repository.FileRepository,
	eng engine.Engine, notifier mailer.Notifier, runner *workflow.Runner,
	cfg Config, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		orders: orders,
		files:  files,
		engine: eng,
		mailer: notifier,
		runner: runner,
		cfg:    cfg,
		log:    logger,
	}
}

// Run executes the full workflow for one order. Steps completed by an
// earlier attempt are replayed from their records, so a restart resumes
// where the previous run stopped: already-translated languages are not
// re-translated and already-sent emails are not re-sent.
//
// Languages are processed sequentially, in the order's list order. A
// language whose steps exhaust their retries fails the whole run; languages
// already saved keep their rows and the order stays in processing.
func (j *Job) Run(ctx context.Context, orderID uuid.UUID) error {
	run := j.runner.NewRun(orderID.String())
	start := time.Now()

	order, err := workflow.Step(ctx, run, "get-order", func(ctx context.Context) (*entity.Order, error) {
		return j.orders.GetByID(ctx, orderID)
	})
	if err != nil {
		return err
	}
	if err := languages.Validate(order.Languages); err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}

	source, err := workflow.Step(ctx, run, "get-file-content", func(ctx context.Context) (string, error) {
		f, err := j.files.GetOriginal(ctx, orderID)
		if err != nil {
			return "", err
		}
		return f.Content, nil
	})
	if err != nil {
		return err
	}

	if err := workflow.Do(ctx, run, "update-status-processing", func(ctx context.Context) error {
		return j.orders.MarkProcessing(ctx, orderID)
	}); err != nil {
		return err
	}

	for _, code := range order.Languages {
		if err := j.translateLanguage(ctx, run, order, source, code); err != nil {
			return err
		}
	}

	if err := workflow.Do(ctx, run, "update-status-completed", func(ctx context.Context) error {
		return j.orders.MarkCompleted(ctx, orderID, time.Now().UTC())
	}); err != nil {
		return err
	}

	if err := workflow.Do(ctx, run, "send-completion-email", func(ctx context.Context) error {
		return j.mailer.SendCompletion(ctx, j.completionEmail(order))
	}); err != nil {
		return err
	}

	if err := workflow.Do(ctx, run, "notify-admin", func(ctx context.Context) error {
		return j.mailer.SendOperatorSummary(ctx, j.operatorEmail(order))
	}); err != nil {
		return err
	}

	j.log.Info("pipeline.job.ok",
		"order_id", orderID,
		"languages", len(order.Languages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// translateLanguage runs the three per-language steps: translate pass,
// editorial pass, save. All three must succeed before the caller advances
// to the next language.
func (j *Job) translateLanguage(ctx context.Context, run *workflow.Run,
	order *entity.Order, source, code string) error {
	set, err := languages.Resolve(code)
	if err != nil {
		return fmt.Errorf("order %s: %w", order.ID, err)
	}

	draft, err := workflow.Step(ctx, run, "translate-"+code, func(ctx context.Context) (string, error) {
		text, err := j.engine.Generate(ctx, engine.Request{
			Model:     j.cfg.TranslateModel,
			MaxTokens: j.cfg.MaxTokens,
			Prompt: engine.TranslationPrompt{
				SourceText:          source,
				LanguageName:        set.Name,
				LanguageStyle:       set.Style,
				Genre:               order.Genre,
				BookTitle:           order.BookTitle,
				AuthorName:          order.AuthorName,
				SpecialInstructions: order.SpecialInstructions,
			}.Render(),
		})
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.New("empty translation")
		}
		return text, nil
	})
	if err != nil {
		return err
	}

	edited, err := workflow.Step(ctx, run, "editorial-"+code, func(ctx context.Context) (string, error) {
		text, err := j.engine.Generate(ctx, engine.Request{
			Model:     j.cfg.EditorialModel,
			MaxTokens: j.cfg.MaxTokens,
			Prompt: engine.EditorialPrompt{
				SourceText:    source,
				DraftText:     draft,
				LanguageName:  set.Name,
				LanguageStyle: set.Style,
				Genre:         order.Genre,
			}.Render(),
		})
		if err != nil {
			return "", err
		}
		// Fall back to the raw draft when the editorial output is empty or
		// its highlight markers do not parse; the draft is still a complete
		// translation.
		if strings.TrimSpace(text) == "" {
			j.log.Warn("pipeline.editorial.empty", "order_id", order.ID, "language", code)
			return draft, nil
		}
		if verr := highlight.Validate(text); verr != nil {
			j.log.Warn("pipeline.editorial.unparseable",
				"order_id", order.ID, "language", code, "error", verr)
			return draft, nil
		}
		return text, nil
	})
	if err != nil {
		return err
	}

	return workflow.Do(ctx, run, "save-translation-"+code, func(ctx context.Context) error {
		return j.files.UpsertTranslated(ctx, &entity.File{
			ID:              uuid.New(),
			OrderID:         order.ID,
			Type:            constants.FileTypeTranslated,
			Language:        code,
			Content:         edited,
			OriginalContent: draft,
			CreatedAt:       time.Now().UTC(),
		})
	})
}

func (j *Job) completionEmail(order *entity.Order) mailer.Completion {
	base := strings.TrimRight(j.cfg.BaseURL, "/")
	links := make([]mailer.DownloadLink, 0, len(order.Languages))
	for _, code := range order.Languages {
		name := code
		if set, err := languages.Resolve(code); err == nil {
			name = set.Name
		}
		links = append(links, mailer.DownloadLink{
			Language: name,
			URL:      fmt.Sprintf("%s/download/%s/%s", base, order.ID, code),
		})
	}
	return mailer.Completion{
		To:         order.Email,
		AuthorName: order.AuthorName,
		BookTitle:  order.BookTitle,
		Links:      links,
	}
}

func (j *Job) operatorEmail(order *entity.Order) mailer.OperatorSummary {
	names := make([]string, 0, len(order.Languages))
	for _, code := range order.Languages {
		name := code
		if set, err := languages.Resolve(code); err == nil {
			name = set.Name
		}
		names = append(names, name)
	}
	return mailer.OperatorSummary{
		To:         j.cfg.OperatorEmail,
		OrderID:    order.ID.String(),
		AuthorName: order.AuthorName,
		Email:      order.Email,
		BookTitle:  order.BookTitle,
		Languages:  names,
		Status:     "Completed and delivered",
	}
}
