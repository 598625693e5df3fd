package api

import (
	"net/http"
	"pharmanet-service/internal/api/handlers"
	"pharmanet-service/internal/api/schema"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store ports.LedgerStore, validator *schema.Validator) http.Handler {
	mux := http.NewServeMux()

	opHandler := &handlers.OperationHandler{Store: store, Schema: validator}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", obs.Handler())
	mux.HandleFunc("/{org}/{operation}", opHandler.Invoke)

	return requestIDMiddleware(loggingMiddleware(mux))
}
