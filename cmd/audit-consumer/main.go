package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"payment-orchestrator/internal/audit"
	"payment-orchestrator/internal/config"
	"payment-orchestrator/pkg/idempotency"
	"payment-orchestrator/pkg/logging"
	"payment-orchestrator/pkg/shutdown"
	"payment-orchestrator/pkg/tracing"
)

func main() {
	log := logging.New("audit-consumer")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg := config.Load()

	tp, err := tracing.Init(ctx, "audit-consumer", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	dedupe := idempotency.NewStore(rdb, 24*time.Hour)

	recorder := audit.NewPostgresRecorder(log, pool)
	consumer := audit.NewConsumer(log, []string{cfg.KafkaAddr}, cfg.EventTopic, "audit-consumer", recorder, dedupe)

	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Error("consumer stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("audit-consumer shutdown")
}
