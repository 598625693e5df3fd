package services

import (
	"context"
	"encoding/json"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
)

// Return every recorded version of a drug in write order.
// A drug that was never written has an empty history.
func ViewHistory(ctx context.Context, ledger ports.Ledger, drugName, serialNo string) (_ []domain.HistoryEntry, err error) {
	defer obs.Time(ctx, "services.ViewHistory")(&err)

	if err := requireNonEmpty("drugName", drugName, "serialNo", serialNo); err != nil {
		return nil, fmt.Errorf("view history: %w", err)
	}

	key, err := domain.MakeKey(domain.DrugNamespace, drugName, serialNo)
	if err != nil {
		return nil, fmt.Errorf("view history: %w", err)
	}

	return keyHistory(ledger, key)
}

func keyHistory(ledger ports.Ledger, key string) (_ []domain.HistoryEntry, err error) {
	it, err := ledger.GetHistoryForKey(key)
	if err != nil {
		return nil, fmt.Errorf("history for key: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close history iterator: %w", cerr)
		}
	}()

	entries := []domain.HistoryEntry{}
	for it.HasNext() {
		m, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("history for key: next: %w", err)
		}

		entries = append(entries, domain.HistoryEntry{
			TxID:      m.TxID,
			Timestamp: m.Timestamp.UTC(),
			IsDelete:  m.IsDelete,
			Value:     decodeValue(m.Value),
		})
	}

	return entries, nil
}

// Structured values are passed through as JSON; anything else as a string.
func decodeValue(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(append([]byte(nil), b...))
	}
	return string(b)
}
