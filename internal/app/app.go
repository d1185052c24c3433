// Package app wires configuration, storage, services and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/takeoff-backend/internal/adapter/notify"
	"github.com/heartmarshall/takeoff-backend/internal/auth"
	"github.com/heartmarshall/takeoff-backend/internal/config"
	"github.com/heartmarshall/takeoff-backend/internal/metrics"
	annotationsvc "github.com/heartmarshall/takeoff-backend/internal/service/annotation"
	"github.com/heartmarshall/takeoff-backend/internal/service/autocomplete"
	"github.com/heartmarshall/takeoff-backend/internal/service/document"
	"github.com/heartmarshall/takeoff-backend/internal/service/hierarchy"
	"github.com/heartmarshall/takeoff-backend/internal/service/linker"
	"github.com/heartmarshall/takeoff-backend/internal/service/views"
	"github.com/heartmarshall/takeoff-backend/internal/transport/middleware"
	"github.com/heartmarshall/takeoff-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, opens storage,
// serves the REST API and shuts down gracefully once ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("log_level", cfg.Log.Level),
	)

	st, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	handler := newHandler(logger, cfg, st)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// newHandler builds the full HTTP stack over already opened storage.
func newHandler(logger *slog.Logger, cfg *config.Config, st *storage) http.Handler {
	rec := metrics.New()

	link := linker.NewService(logger, st.entities)
	annotations := annotationsvc.NewService(logger, annotationsvc.Deps{
		Annotations: st.annotations,
		Pages:       st.pages,
		Audit:       st.audit,
		Tx:          st.tx,
		Resolver:    hierarchy.NewResolver(logger, st.annotations, cfg.Annotation.MaxHierarchyDepth),
		Linker:      link,
		Completer: autocomplete.NewCompleter(logger, st.annotations, link, autocomplete.Config{
			Enabled:   cfg.Annotation.AutoCompleteRuns,
			RunSuffix: cfg.Annotation.RunLabelSuffix,
		}),
		Views:    views.NewTracker(logger, st.annotations),
		Notifier: notify.NewLogNotifier(logger),
		Metrics:  rec,
	}, annotationsvc.Config{
		PropagateLabels: cfg.Annotation.PropagateLabels,
		HistoryLimit:    cfg.Annotation.HistoryLimit,
	})

	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(st.pinger, cfg.Storage.Driver, BuildVersion()),
		Annotations: rest.NewAnnotationHandler(annotations, logger),
		Documents:   rest.NewDocumentHandler(document.NewService(logger, st.pages), logger),
	}
	if cfg.Metrics.Enabled {
		handlers.Metrics = rec.Handler()
		handlers.MetricsPath = cfg.Metrics.Path
	}

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(rec),
	}
	if cfg.Auth.JWTSecret != "" {
		jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)
		mws = append(mws, middleware.ForPathPrefix("/api/", middleware.Auth(jwt, cfg.Auth.RequireAuth, logger)))
	} else {
		logger.Warn("bearer authentication disabled: auth.jwt_secret is empty")
	}

	return middleware.Chain(mws...)(rest.NewRouter(handlers))
}
