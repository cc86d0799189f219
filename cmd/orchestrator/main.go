package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"payment-orchestrator/internal/config"
	"payment-orchestrator/internal/payment/application"
	"payment-orchestrator/internal/payment/infrastructure/clients"
	payhttp "payment-orchestrator/internal/payment/infrastructure/http"
	paykafka "payment-orchestrator/internal/payment/infrastructure/kafka"
	paypg "payment-orchestrator/internal/payment/infrastructure/postgres"
	"payment-orchestrator/pkg/logging"
	"payment-orchestrator/pkg/outbox"
	"payment-orchestrator/pkg/shutdown"
	"payment-orchestrator/pkg/tracing"
)

func main() {
	log := logging.New("payment-orchestrator")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg := config.Load()

	tp, err := tracing.Init(ctx, "payment-orchestrator", cfg.OTLPEndpoint, log)
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

	writer := paykafka.NewWriter([]string{cfg.KafkaAddr})
	defer writer.Close()

	repo := paypg.NewRepository(log, pool)
	retries := paypg.NewRetryStore(log, pool)
	publisher := paykafka.NewPublisher(log, writer, cfg.EventTopic)

	dispatch := outbox.NewDispatcher(log, writer, cfg.EventTopic)
	relay := outbox.NewRelay(log, retries, dispatch, "orchestrator-relay-"+uuid.NewString())

	riskClient := clients.NewRiskClient(log, cfg.RiskBaseURL, cfg.OutboundTimeout)
	tokClient := clients.NewTokenizerClient(log, cfg.TokenizerBaseURL, cfg.OutboundTimeout)

	svc := application.NewService(log, riskClient, tokClient, repo, publisher, retries)
	handler := payhttp.NewHandler(log, svc)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("orchestrator shutdown complete")
}
