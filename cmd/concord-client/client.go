package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/Alexander-D-Karpov/concord-client/internal/common/logging"
	"github.com/Alexander-D-Karpov/concord-client/internal/events"
	"github.com/Alexander-D-Karpov/concord-client/internal/gateway"
	"github.com/Alexander-D-Karpov/concord-client/internal/infra/cache"
	"github.com/Alexander-D-Karpov/concord-client/internal/notify"
	"github.com/Alexander-D-Karpov/concord-client/internal/observability"
	"github.com/Alexander-D-Karpov/concord-client/internal/session"
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"github.com/Alexander-D-Karpov/concord-client/internal/timefmt"
	"github.com/Alexander-D-Karpov/concord-client/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func runClient(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Session.UserID == "" {
		return fmt.Errorf("SESSION_USER_ID is required")
	}

	logger, err := logging.Init(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting concord-client",
		zap.String("version", version.Full()),
		zap.String("user_id", cfg.Session.UserID),
		zap.String("gateway", cfg.Gateway.URL),
	)

	st := store.New()
	sess := session.New(cfg.Session.UserID)

	metrics := observability.NewMetrics(logger, prometheus.NewRegistry())
	health := observability.NewHealthChecker(logger, version.Client())

	unsubscribe := st.Subscribe(func(c store.Change) {
		if c.Has(store.KindMentions) {
			metrics.SetUnreadMentions(st.Mentions.Total())
		}
	})
	defer unsubscribe()

	var persister *store.MentionPersister
	if cfg.Redis.Enabled {
		cacheClient, err := cache.New(cfg.Redis)
		if err != nil {
			logger.Warn("failed to connect to Redis, mentions will not persist", zap.Error(err))
		} else {
			defer func() {
				if err := cacheClient.Close(); err != nil {
					logger.Error("failed to close cache", zap.Error(err))
				}
			}()

			persister = store.NewMentionPersister(cacheClient, st, mentionsKey(cacheClient, cfg.Session.UserID), cfg.Redis.MentionTTL, logger)
			restored, err := persister.Restore(ctx)
			if err != nil {
				logger.Warn("failed to restore mentions", zap.Error(err))
			} else {
				logger.Info("restored unread mentions", zap.Int("channels", restored))
			}

			health.RegisterCheck("redis", func(ctx context.Context) (observability.HealthStatus, string, error) {
				if err := cacheClient.Ping(ctx); err != nil {
					return observability.StatusDegraded, err.Error(), nil
				}
				return observability.StatusHealthy, "", nil
			})
		}
	}

	notifier := notify.NewDispatcher(
		cfg.Notifications,
		notify.NewBell(os.Stdout),
		notify.NewTerminal(os.Stdout, timefmt.Default),
		metrics,
		logger,
	)
	defer notifier.Close()

	handler := events.NewStoreHandler(st, sess, sess, notifier, logger)
	router := events.NewRouter(handler, sess, metrics, logger)
	client := gateway.New(cfg.Gateway, router, sess, metrics, logger)

	health.RegisterCheck("gateway", func(context.Context) (observability.HealthStatus, string, error) {
		if client.Connected() {
			return observability.StatusHealthy, "", nil
		}
		return observability.StatusUnhealthy, "disconnected", nil
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 1)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Start(ctx, cfg.Metrics.Port, health); err != nil {
				errChan <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	if persister != nil {
		persister.Run(ctx)
		defer persister.Wait()
	}

	if err := supervise(ctx, cancel, logger, client.Run, errChan); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// supervise runs the gateway until it stops, a side service fails or ctx is
// cancelled. It returns only once run has returned, so nothing is dispatched
// into the store after the caller starts tearing down.
func supervise(ctx context.Context, cancel context.CancelFunc, logger *zap.Logger, run func(context.Context) error, failures <-chan error) error {
	runDone := make(chan error, 1)
	go func() {
		runDone <- run(ctx)
	}()

	select {
	case err := <-runDone:
		cancel()
		return err
	case err := <-failures:
		cancel()
		<-runDone
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		<-runDone
		return nil
	}
}

func mentionsKey(c *cache.Cache, userID string) string {
	return c.Key("mentions", userID)
}
