package services

import (
	"encoding/json"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"strings"
	"time"
)

// Read and decode the JSON document stored at key.
// ok is false when the key is absent.
func getJSON(ledger ports.Ledger, key string, v any) (bool, error) {
	b, ok, err := ledger.GetState(key)
	if err != nil {
		return false, fmt.Errorf("get state: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode state: %w", err)
	}
	return true, nil
}

func putJSON(ledger ports.Ledger, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err := ledger.PutState(key, b); err != nil {
		return fmt.Errorf("put state: %w", err)
	}
	return nil
}

func keyExists(ledger ports.Ledger, key string) (bool, error) {
	_, ok, err := ledger.GetState(key)
	if err != nil {
		return false, fmt.Errorf("get state: %w", err)
	}
	return ok, nil
}

// Record timestamps come from the transaction, never the local clock,
// so every node writes identical bytes.
func txTime(ledger ports.Ledger) (time.Time, error) {
	ts, err := ledger.TxTimestamp()
	if err != nil {
		return time.Time{}, fmt.Errorf("transaction timestamp: %w", err)
	}
	return ts.UTC(), nil
}

// Fail with ErrInvalidArgument when any of the named values is blank.
// Pairs are given as name, value, name, value, ...
func requireNonEmpty(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%s must not be empty: %w", pairs[i], domain.ErrInvalidArgument)
		}
	}
	return nil
}
