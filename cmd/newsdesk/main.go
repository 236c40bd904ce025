package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsdesk/internal/auth"
	"newsdesk/internal/config"
	httpapp "newsdesk/internal/http"
	"newsdesk/internal/logging"
	"newsdesk/internal/rate"
	"newsdesk/internal/store/sqlite"
	"newsdesk/internal/translate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer st.Close()

	authSvc := auth.NewService(st, []byte(cfg.JWTSecret), cfg.TokenTTL)

	var gen translate.TextGenerator
	if cfg.Gemini.APIKey != "" {
		gen = translate.NewGeminiClient(cfg.Gemini.Endpoint, cfg.Gemini.Model, cfg.Gemini.APIKey)
	}
	translator := translate.NewService(gen, logger)

	limiter := rate.NewMemory()
	server := httpapp.NewServer(st, authSvc, translator, limiter, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("newsdesk listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}
