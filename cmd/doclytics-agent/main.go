package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HamiltonMussi/doclytics-go/internal/bootstrap"
	"github.com/HamiltonMussi/doclytics-go/internal/config"
	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/core/usecase"
	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/watch"
	"github.com/HamiltonMussi/doclytics-go/internal/observability/logging"
	"github.com/HamiltonMussi/doclytics-go/internal/observability/metrics"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewJSONLogger("doclytics-agent", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, "doclytics-agent", logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if _, err := app.SessionUC.CurrentUser(ctx); err != nil {
		logger.Error("no valid session, run `doclytics login` first", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.AgentMetricsPort,
		Handler: mux,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	watcher := watch.New(cfg.WatchDir, &meteredUploader{
		inner:   app.Uploader,
		metrics: app.Metrics,
	}, logger)
	watcher.OnUploaded = func(ctx context.Context, doc domain.Document) {
		awaitTerminal(ctx, app, doc, logger)
	}

	logger.Info("agent started",
		"watch_dir", cfg.WatchDir,
		"metrics_port", cfg.AgentMetricsPort,
	)

	runErr := watcher.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("watcher stopped", "error", runErr)
		os.Exit(1)
	}
	logger.Info("agent stopped")
}

// meteredUploader counts upload outcomes without teaching the use case about
// prometheus.
type meteredUploader struct {
	inner   *usecase.Uploader
	metrics *metrics.ClientMetrics
}

func (m *meteredUploader) Upload(ctx context.Context, path string) (*domain.Document, error) {
	doc, err := m.inner.Upload(ctx, path)
	switch {
	case err == nil:
		m.metrics.ObserveUpload("ok")
	case usecase.IsValidationError(err):
		m.metrics.ObserveUpload("rejected")
	default:
		m.metrics.ObserveUpload("failed")
	}
	return doc, err
}

// awaitTerminal arms the status poller for doc and blocks until the document
// reaches a terminal status or polling gives up, so uploads are processed one
// at a time.
func awaitTerminal(ctx context.Context, app *bootstrap.App, doc domain.Document, logger *slog.Logger) {
	if doc.OcrStatus.Terminal() {
		logFinal(logger, doc)
		return
	}

	updates := make(chan struct{}, 1)
	unsubscribe := app.Documents.Subscribe(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()
	defer app.Poller.Stop()

	app.Poller.SetActiveDocument(doc.ID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
		case <-time.After(10 * time.Second):
		}

		current, ok := app.Documents.Get(doc.ID)
		if !ok {
			logger.Warn("document vanished while waiting", "document_id", doc.ID)
			return
		}
		if current.OcrStatus.Terminal() {
			logFinal(logger, current)
			return
		}
		if app.Poller.ActiveDocument() == "" {
			logger.Warn("polling stopped before terminal status",
				"document_id", doc.ID,
				"status", string(current.OcrStatus),
			)
			return
		}
	}
}

func logFinal(logger *slog.Logger, doc domain.Document) {
	if doc.OcrStatus == domain.StatusFailed {
		logger.Warn("document processing failed",
			"document_id", doc.ID,
			"file_name", doc.FileName,
		)
		return
	}
	logger.Info("document processed",
		"document_id", doc.ID,
		"file_name", doc.FileName,
		"summary_len", len(doc.Summary),
	)
}
