// Command server runs the se-leg registration authority service. main wires
// dependencies and owns the process lifecycle; all logic lives in the
// internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"selegra/internal/auditlog"
	"selegra/internal/federation"
	"selegra/internal/operator"
	"selegra/internal/platform/config"
	"selegra/internal/platform/httpserver"
	"selegra/internal/platform/logger"
	"selegra/internal/platform/metrics"
	"selegra/internal/platform/mongodb"
	"selegra/internal/platform/redis"
	"selegra/internal/proofing"
	proofingmetrics "selegra/internal/proofing/metrics"
	httptransport "selegra/internal/transport/http"
	"selegra/internal/vetting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo, err := mongodb.New(ctx, cfg.Mongo)
	if err != nil {
		log.Error("mongodb init failed", "error", err)
		os.Exit(1)
	}
	defer mongo.Close(context.Background())
	log.Info("mongodb initialized", "database", cfg.Mongo.Database)

	cache, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
		log.Info("redis cache initialized", "addr", cfg.Redis.Addr)
	}

	operatorStore := operator.NewMongoStore(mongo.Collection("operators"))
	if err := operatorStore.EnsureIndexes(ctx); err != nil {
		log.Error("operators index setup failed", "error", err)
		os.Exit(1)
	}
	whitelist := operator.NewService(operatorStore, cache, log)

	gate := federation.NewAssuranceGate(federation.Policy{
		AL2Assurances:     cfg.Gates.AL2Assurances,
		AL2IDPExceptions:  cfg.Gates.AL2IDPExceptions,
		MFAContextClasses: cfg.Gates.MFAContextClasses,
		MFAIDPExceptions:  cfg.Gates.MFAIDPExceptions,
	}, log)

	audit := auditlog.NewMongoStore(mongo.MajorityCollection("proofing_log"))
	relay := vetting.New(cfg.Vetting.URL, cfg.App.ID, cfg.App.Secret, cfg.Vetting.Timeout, log)
	pipeline := proofing.NewService(audit, relay, cfg.App.ID, cfg.ProofingVersion, log, proofingmetrics.New())

	router := httptransport.NewRouter(
		httptransport.NewHandler(pipeline, log),
		httptransport.NewHealthHandler(mongo, log),
		gate,
		whitelist,
		log,
		metrics.New(),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting se-leg RA", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
