package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compass/api/internal/app"
	"compass/api/internal/comments"
	"compass/api/internal/config"
	"compass/api/internal/email"
	"compass/api/internal/export"
	"compass/api/internal/records"
	"compass/api/internal/store"
	"compass/api/internal/viewstate"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	snapshots := store.NewPostgresStore(db)
	if err := snapshots.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	commentStore, err := comments.NewStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("comment store setup failed: %v", err)
	}
	defer commentStore.Close()

	stateStore, err := viewstate.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("view state store setup failed: %v", err)
	}
	defer stateStore.Close()

	emailService := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})
	if !emailService.IsConfigured() {
		log.Printf("SMTP not configured, comment notifications disabled")
	}

	source := records.NewSource(cfg.SheetURL, cfg.FetchTimeout)
	service := app.New(cfg, source, snapshots, commentStore, stateStore, emailService, export.NewService())
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: initial record load error (sample data active): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Compass API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
