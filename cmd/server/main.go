package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"pharmanet-service/internal/adapters/ledger"
	"pharmanet-service/internal/api"
	"pharmanet-service/internal/api/schema"
	"pharmanet-service/internal/config"
	"pharmanet-service/internal/platform/db"
	"time"
)

// main is the HTTP gateway composition root.
// It opens the configured SQL ledger, ensures its schema and starts the HTTP server.
func main() {
	config.Load()
	cfg := config.LoadServer()

	conn, store, err := openLedger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.InitSchema(ctx)
	cancel()
	if err != nil {
		log.Fatal(err)
	}

	validator, err := schema.New()
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(store, validator)

	log.Printf("Server listening addr=:%s ledger=%s", cfg.Port, cfg.LedgerDriver)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openLedger(cfg config.Server) (*sql.DB, *ledger.SQLLedger, error) {
	switch cfg.LedgerDriver {
	case "sqlite":
		conn, err := db.OpenSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return conn, ledger.NewSqliteLedger(conn), nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("open ledger: DATABASE_URL is required for the postgres ledger")
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, ledger.NewPostgresLedger(conn), nil

	default:
		return nil, nil, fmt.Errorf("open ledger: unknown LEDGER_DRIVER %q (want sqlite or postgres)", cfg.LedgerDriver)
	}
}
