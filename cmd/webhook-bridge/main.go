package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/whatsapp-cloud/internal/bridge"
	"github.com/example/whatsapp-cloud/internal/config"
	"github.com/example/whatsapp-cloud/internal/kafka/producer"
	kafkapublisher "github.com/example/whatsapp-cloud/internal/kafka/publisher"
	"github.com/example/whatsapp-cloud/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "webhook-bridge").Logger()

	kafkaLogger := log.With().Str("component", "kafka").Logger()
	prod, err := producer.New(cfg.Kafka.Brokers, kafkaLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	defer func() {
		if err := prod.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka producer")
		}
	}()

	eventPublisher := kafkapublisher.NewEventPublisher(prod, cfg.Kafka.EventsTopic, log.With().Str("component", "event-publisher").Logger())
	if eventPublisher == nil {
		log.Fatal().Msg("failed to create event publisher")
	}
	dlqPublisher := kafkapublisher.NewDLQPublisher(prod, cfg.Kafka.DLQTopic, log.With().Str("component", "dlq-publisher").Logger())
	if dlqPublisher == nil {
		log.Fatal().Msg("failed to create dlq publisher")
	}

	handler, err := bridge.New(bridge.Config{
		VerifyToken:        cfg.Webhook.VerifyToken,
		MaxBodyBytes:       cfg.Webhook.MaxBodyBytes,
		PublishConcurrency: cfg.Kafka.PublishConcurrency,
	}, bridge.Dependencies{
		Events: eventPublisher,
		DLQ:    dlqPublisher,
		Logger: log.With().Str("component", "webhook-handler").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise webhook handler")
	}

	mux := http.NewServeMux()
	mux.Handle("/webhook", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !prod.IsReady() {
			http.Error(w, "kafka not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", cfg.Server.ListenAddr).Str("events_topic", cfg.Kafka.EventsTopic).Msg("webhook bridge started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server terminated with error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownGraceSeconds)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("webhook bridge init failed")
}
