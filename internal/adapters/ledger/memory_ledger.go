package ledger

import (
	"context"
	"errors"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/ports"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-process versioned key-value ledger.
// Transactions run one at a time; each commits all of its writes under a
// single transaction id, or none of them.
type MemoryLedger struct {
	mu      sync.Mutex
	state   map[string][]byte
	history map[string][]ports.KeyModification
	nowFn   func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		state:   make(map[string][]byte),
		history: make(map[string][]ports.KeyModification),
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// Run fn in a transaction and commit its writes when fn returns nil.
func (m *MemoryLedger) Run(ctx context.Context, fn func(ports.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		store:  m,
		id:     uuid.NewString(),
		ts:     m.nowFn(),
		writes: make(map[string][]byte),
	}

	if err := fn(tx); err != nil {
		return err
	}

	for _, key := range tx.order {
		value := tx.writes[key]
		m.state[key] = value
		m.history[key] = append(m.history[key], ports.KeyModification{
			TxID:      tx.id,
			Timestamp: tx.ts,
			Value:     value,
		})
	}

	return nil
}

type memoryTx struct {
	store  *MemoryLedger
	id     string
	ts     time.Time
	writes map[string][]byte
	order  []string
}

func (tx *memoryTx) GetState(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("memory ledger: get state: key must not be empty")
	}

	v, ok := tx.store.state[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (tx *memoryTx) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("memory ledger: put state: key must not be empty")
	}
	if len(value) == 0 {
		return fmt.Errorf("memory ledger: put state: empty value for key %q", key)
	}

	if _, ok := tx.writes[key]; !ok {
		tx.order = append(tx.order, key)
	}
	tx.writes[key] = append([]byte(nil), value...)
	return nil
}

func (tx *memoryTx) GetStateByPartialCompositeKey(namespace string, fields []string) (ports.StateIterator, error) {
	start, end, err := domain.PartialKeyRange(namespace, fields...)
	if err != nil {
		return nil, fmt.Errorf("memory ledger: range: %w", err)
	}

	keys := make([]string, 0)
	for k := range tx.store.state {
		if k >= start && k < end {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	items := make([]ports.KV, 0, len(keys))
	for _, k := range keys {
		items = append(items, ports.KV{Key: k, Value: append([]byte(nil), tx.store.state[k]...)})
	}

	return &sliceStateIterator{items: items}, nil
}

func (tx *memoryTx) GetHistoryForKey(key string) (ports.HistoryIterator, error) {
	versions := tx.store.history[key]

	items := make([]ports.KeyModification, len(versions))
	for i, v := range versions {
		items[i] = v
		items[i].Value = append([]byte(nil), v.Value...)
	}

	return &sliceHistoryIterator{items: items}, nil
}

func (tx *memoryTx) TxID() string { return tx.id }

func (tx *memoryTx) TxTimestamp() (time.Time, error) { return tx.ts, nil }
