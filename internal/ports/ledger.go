package ports

import (
	"context"
	"time"
)

// A key and its current value returned by a range query.
type KV struct {
	Key   string
	Value []byte
}

// One committed write to a key.
type KeyModification struct {
	TxID      string
	Timestamp time.Time
	IsDelete  bool
	Value     []byte
}

// Forward-only cursor over a partial-key range, in key order.
type StateIterator interface {
	HasNext() bool
	Next() (KV, error)
	Close() error
}

// Forward-only cursor over the versions of one key, in write order.
type HistoryIterator interface {
	HasNext() bool
	Next() (KeyModification, error)
	Close() error
}

// Ledger is the view of the key-value ledger held by a single transaction.
//
// Reads observe committed state only; writes are buffered and become
// visible together when the transaction commits.
type Ledger interface {
	// Return the committed value for key; ok is false when the key is absent.
	GetState(key string) (value []byte, ok bool, err error)
	PutState(key string, value []byte) error
	// Iterate every key of namespace whose leading fields equal fields.
	GetStateByPartialCompositeKey(namespace string, fields []string) (StateIterator, error)
	GetHistoryForKey(key string) (HistoryIterator, error)
	TxID() string
	// Timestamp of the transaction, identical on every node that executes it.
	TxTimestamp() (time.Time, error)
}

// LedgerStore runs operations as atomic ledger transactions.
type LedgerStore interface {
	// Run fn in a new transaction. Writes commit only when fn returns nil.
	Run(ctx context.Context, fn func(Ledger) error) error
}
