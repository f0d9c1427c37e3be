package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"cardwallet/internal/audit"
	"cardwallet/internal/definition/registry"
	"cardwallet/internal/exchange"
	"cardwallet/internal/exchange/replay"
	"cardwallet/internal/holder"
	"cardwallet/internal/manifest"
	manifeststore "cardwallet/internal/manifest/store"
	"cardwallet/internal/platform/config"
	"cardwallet/internal/platform/httpserver"
	"cardwallet/internal/platform/logger"
	"cardwallet/internal/platform/metrics"
	platformredis "cardwallet/internal/platform/redis"
	"cardwallet/internal/presentation"
	"cardwallet/internal/signer"
	httptransport "cardwallet/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.New()
	if err := registry.SeedWellKnownScopes(reg); err != nil {
		return fmt.Errorf("seed scopes: %w", err)
	}

	manifests, closeManifests, err := buildManifestStore(cfg)
	if err != nil {
		return err
	}
	defer closeManifests()

	guard, closeGuard, err := buildReplayGuard(cfg)
	if err != nil {
		return err
	}
	defer closeGuard()

	sink, closeSink, err := buildAuditSink(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	inbox := make(chan audit.Event, 256)
	publisher := audit.NewPublisher(audit.NewChannelStore(inbox))
	worker := audit.NewWorker(sink, inbox, log)

	jwtSigner, err := signer.NewHS256([]byte(cfg.JWTSigningKey))
	if err != nil {
		return fmt.Errorf("build signer: %w", err)
	}

	service := holder.NewService(
		exchange.NewParser(reg),
		manifests,
		presentation.NewAssembler(cfg.WalletID),
		jwtSigner,
		guard,
		publisher,
		metrics.New(),
		log,
	)

	router := httptransport.NewRouter(log,
		httptransport.NewExchangeHandler(exchange.NewBuilder(cfg.WalletID), service, reg, publisher, log),
		httptransport.NewCredentialsHandler(manifests, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting cardwallet", "addr", cfg.Addr, "wallet_id", cfg.WalletID)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildManifestStore selects the PostgreSQL store when DATABASE_URL is set,
// otherwise an in-memory store seeded with demo credentials.
func buildManifestStore(cfg config.Server) (holder.ManifestSource, func(), error) {
	if cfg.Postgres.URL == "" {
		return manifeststore.NewInMemory(demoEntries()...), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return manifeststore.NewPostgres(db), func() { db.Close() }, nil
}

// buildReplayGuard selects the Redis guard when REDIS_URL is set, otherwise
// the in-process guard. Either way the TTL covers the token validity window.
func buildReplayGuard(cfg config.Server) (holder.ReplayGuard, func(), error) {
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		return replay.NewMemoryGuard(presentation.TokenTTL), func() {}, nil
	}
	return replay.NewRedisGuard(client.Client, presentation.TokenTTL), func() { client.Close() }, nil
}

// buildAuditSink selects the Kafka store when brokers are configured,
// otherwise the in-memory store.
func buildAuditSink(cfg config.Server) (audit.Store, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewInMemoryStore(), func() {}, nil
	}
	store, err := audit.NewKafkaStore(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka: %w", err)
	}
	return store, store.Close, nil
}

// demoEntries seeds the in-memory manifest so the demo deployment has
// something to present against the well-known scopes.
func demoEntries() []manifest.Entry {
	return []manifest.Entry{
		{
			Credential:  "eyJhbGciOiJFUzI1NiJ9.demo-insurance-card.sig",
			FHIRVersion: "4.0.1",
			FHIRBundleContains: []manifest.BundleItem{
				{ResourceType: "Patient"},
				{ResourceType: "Coverage"},
			},
		},
		{
			Credential:  "eyJhbGciOiJFUzI1NiJ9.demo-covid-immunization.sig",
			FHIRVersion: "4.0.1",
			FHIRBundleContains: []manifest.BundleItem{
				{ResourceType: "Patient"},
				{ResourceType: "Observation", Profile: []string{"https://smarthealth.cards/profiles#covid19-immunization"}},
			},
		},
	}
}
