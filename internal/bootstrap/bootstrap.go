package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dsokolov/procurement-assistant/internal/config"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
	"github.com/dsokolov/procurement-assistant/internal/core/usecase"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/email/noop"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/email/ses"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/llm/gemini"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/llm/ollama"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/queue/nats"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/repository/postgres"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/resilience"
)

// App holds the wired dependency graph shared by the api and worker
// binaries.
type App struct {
	Config config.Config

	Queue ports.MessageQueue

	RFPRepo      ports.RFPRepository
	VendorRepo   ports.VendorRepository
	ProposalRepo ports.ProposalRepository

	RFPs      *usecase.RFPUseCase
	Vendors   *usecase.VendorUseCase
	Proposals *usecase.ProposalUseCase

	Comparer   ports.ProposalComparer
	Structurer ports.RFPStructurer
	Parser     ports.ProposalParser
	Dispatcher ports.RFPDispatcher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	rfpRepo := postgres.NewRFPRepository(db)
	if err := rfpRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	vendorRepo := postgres.NewVendorRepository(db)
	proposalRepo := postgres.NewProposalRepository(db)

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.RetryMaxAttempts,
		BreakerEnabled:   cfg.BreakerEnabled,
	})

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	generator, err := newGenerator(ctx, cfg, executor)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	sender, err := newEmailSender(ctx, cfg)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Queue:  queue,

		RFPRepo:      rfpRepo,
		VendorRepo:   vendorRepo,
		ProposalRepo: proposalRepo,

		RFPs:      usecase.NewRFPUseCase(rfpRepo, queue),
		Vendors:   usecase.NewVendorUseCase(vendorRepo),
		Proposals: usecase.NewProposalUseCase(rfpRepo, proposalRepo),

		Comparer:   usecase.NewCompareUseCase(rfpRepo, proposalRepo, generator),
		Structurer: usecase.NewStructureUseCase(rfpRepo, generator),
		Parser:     usecase.NewParseUseCase(rfpRepo, generator),
		Dispatcher: usecase.NewDispatchUseCase(rfpRepo, vendorRepo, sender),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newGenerator(ctx context.Context, cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "ollama":
		return ollama.NewWithExecutor(cfg.OllamaURL, cfg.OllamaGenModel, executor), nil
	case "gemini", "":
		client, err := gemini.NewWithExecutor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, executor)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// newEmailSender falls back to the logging no-op when SES is not
// configured, so local runs work without AWS credentials.
func newEmailSender(ctx context.Context, cfg config.Config) (ports.EmailSender, error) {
	if cfg.AWSRegion == "" || cfg.EmailFrom == "" {
		slog.Info("email_sender_disabled", "reason", "AWS_REGION or EMAIL_FROM not set")
		return noop.New(), nil
	}
	sender, err := ses.New(ctx, cfg.AWSRegion, cfg.EmailFrom)
	if err != nil {
		return nil, fmt.Errorf("init ses sender: %w", err)
	}
	return sender, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
