package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"payment-orchestrator/internal/risk"
	"payment-orchestrator/pkg/logging"
	"payment-orchestrator/pkg/shutdown"
)

func main() {
	log := logging.New("risk-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	addr := env("HTTP_ADDR", ":8081")
	secret := env("HMAC_SECRET", risk.DefaultSecret)

	handler := risk.NewHandler(log, risk.NewOracle(secret))

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("risk service listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("risk service shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
