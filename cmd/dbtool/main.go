package main

import (
	"context"
	"log"
	"pharmanet-service/internal/adapters/ledger"
	"pharmanet-service/internal/config"
	"pharmanet-service/internal/platform/db"
	"time"
)

// dbtool creates the ledger tables in the Postgres database at DATABASE_URL.
func main() {
	config.Load()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("Initializing ledger schema...")
	if err := ledger.NewPostgresLedger(conn).InitSchema(ctx); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
