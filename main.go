package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bank-ledger/handler"
	"go-bank-ledger/ledger"
	"go-bank-ledger/metrics"
	"go-bank-ledger/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	bankName := os.Getenv("BANK_NAME")
	if bankName == "" {
		bankName = "MyBank"
	}
	book := ledger.New(bankName)

	// Pick the persistence gateway: Postgres when DATABASE_URL is set,
	// otherwise a JSON snapshot file.
	var gateway storage.Gateway
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, databaseURL)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}
		defer store.Close()
		gateway = store
		log.Info("using postgres persistence")
	} else {
		dataFile := os.Getenv("DATA_FILE")
		if dataFile == "" {
			dataFile = "bank_data.json"
		}
		gateway = storage.NewJSONStore(dataFile)
		log.Info("using JSON snapshot persistence", zap.String("path", dataFile))
	}

	// Restore the previous snapshot when one exists; otherwise start empty.
	if snap, err := gateway.Load(ctx); err == nil {
		book.Restore(snap)
		log.Info("ledger restored from snapshot", zap.Int("accounts", len(snap.Accounts)))
	} else {
		log.Info("starting with empty ledger", zap.Error(err))
	}

	persist := func() error {
		return gateway.Save(context.Background(), book.Snapshot())
	}

	accountHandler := handler.NewAccountHandler(book, persist, log)
	transferHandler := handler.NewTransferHandler(book, persist, log)

	m := metrics.New("bank_ledger")
	r := handler.NewRouter(accountHandler, transferHandler)
	r.Use(m.Middleware)
	r.Handle("/metrics", m.Handler()).Methods("GET")

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info("starting server", zap.String("addr", addr), zap.String("bank", bankName))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}

	// Final snapshot so nothing is lost between the last mutation and exit.
	if err := persist(); err != nil {
		log.Error("failed to persist final snapshot", zap.Error(err))
	}

	log.Info("server gracefully stopped")
}

// newLogger builds a zap logger from LOG_LEVEL and LOG_FORMAT (json or
// console).
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Encoding = format
	}
	return cfg.Build()
}
