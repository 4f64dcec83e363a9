package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmpnokaikaku/QueueTicket/internal/config"
	"github.com/tmpnokaikaku/QueueTicket/internal/httpapi"
	"github.com/tmpnokaikaku/QueueTicket/internal/qrsvg"
	"github.com/tmpnokaikaku/QueueTicket/internal/queue"
	"github.com/tmpnokaikaku/QueueTicket/internal/store/postgres"
	"github.com/tmpnokaikaku/QueueTicket/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	shutdownTelemetry := telemetry.Setup("queueticket", cfg.OTLPEndpoint, cfg.OTLPInsecure)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool)
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("schema setup: %v", err)
	}

	svc := queue.NewService(st, qrsvg.NewEncoder(), cfg.BaseURL)
	handler := httpapi.NewHandler(svc)
	guard := httpapi.NewGuard(cfg.AdminUser, cfg.AdminPassword, cfg.BaseURL)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:    cfg.RateLimitPerMinute,
		IPBurst:        cfg.RateLimitBurst,
		GuestPerMinute: cfg.GuestRateLimitPerMinute,
		GuestBurst:     cfg.GuestRateLimitBurst,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(guard.Middleware(handler.Routes()))), "queueticket")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("queueticket listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
