package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/HamiltonMussi/doclytics-go/internal/config"
	"github.com/HamiltonMussi/doclytics-go/internal/core/cache"
	"github.com/HamiltonMussi/doclytics-go/internal/core/usecase"
	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/remote/doclytics"
	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/resilience"
	sessionstore "github.com/HamiltonMussi/doclytics-go/internal/infrastructure/session"
	"github.com/HamiltonMussi/doclytics-go/internal/observability/metrics"
)

// App wires the document client: caches are created here at session start and
// injected into every use case, never reached through globals.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.ClientMetrics

	Sessions *sessionstore.FileStore
	Remote   *doclytics.Client

	Documents    *cache.DocumentCache
	Interactions *cache.InteractionStore

	Poller         *usecase.StatusPoller
	Browser        *usecase.DocumentBrowser
	Uploader       *usecase.Uploader
	InteractionsUC *usecase.Interactions
	SessionUC      *usecase.SessionManager
}

func New(cfg config.Config, service string, logger *slog.Logger) (*App, error) {
	sessions, err := sessionstore.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	clientMetrics := metrics.NewClientMetrics(service)

	remote := doclytics.New(cfg.APIBaseURL, sessions,
		doclytics.WithRateLimit(cfg.RequestRatePerSec, cfg.RequestBurst),
		doclytics.WithExecutor(resilience.NewExecutor(resilience.DefaultConfig())),
		doclytics.WithObserver(func(operation string, statusCode int, duration time.Duration) {
			clientMetrics.ObserveRemoteRequest(operation, statusCode, duration)
		}),
	)

	documents := cache.NewDocumentCache()
	interactions := cache.NewInteractionStore()
	documents.Subscribe(func() { clientMetrics.ObserveCacheUpdate("documents") })

	poller := usecase.NewStatusPoller(remote, documents, usecase.PollerConfig{
		Interval:               cfg.PollInterval(),
		MaxConsecutiveFailures: cfg.PollMaxConsecutiveErr,
		OnTick: func(_ string, outcome usecase.TickOutcome) {
			clientMetrics.ObservePollTick(string(outcome))
		},
	}, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: clientMetrics,

		Sessions: sessions,
		Remote:   remote,

		Documents:    documents,
		Interactions: interactions,

		Poller:         poller,
		Browser:        usecase.NewDocumentBrowser(remote, documents, poller),
		Uploader:       usecase.NewUploader(remote, documents, logger),
		InteractionsUC: usecase.NewInteractions(remote, interactions),
		SessionUC:      usecase.NewSessionManager(remote, sessions, documents, interactions, poller),
	}, nil
}

// Close stops any active poll. Safe to call more than once.
func (a *App) Close() {
	a.Poller.Stop()
}
