package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Statements a SQL dialect provides for the ledger tables.
// Keys are bound as bytes: composite keys contain U+0000.
type dialect struct {
	name          string
	schema        []string
	txOptions     *sql.TxOptions
	getState      string
	upsertState   string
	insertHistory string
	rangeState    string
	keyHistory    string
}

// SQLLedger stores the current state and every committed version of each key
// in a SQL database. Writes are buffered per transaction and flushed in one
// database transaction on commit.
type SQLLedger struct {
	DB      *sql.DB
	dialect dialect
	mu      sync.Mutex
	nowFn   func() time.Time
}

func newSQLLedger(db *sql.DB, d dialect) *SQLLedger {
	return &SQLLedger{
		DB:      db,
		dialect: d,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// Create the ledger tables when missing.
func (l *SQLLedger) InitSchema(ctx context.Context) error {
	if l.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range l.dialect.schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Run fn in a ledger transaction and commit its writes when fn returns nil.
// Transactions from this process run one at a time; the Postgres dialect
// additionally runs them serializable so concurrent writers conflict.
func (l *SQLLedger) Run(ctx context.Context, fn func(ports.Ledger) error) (err error) {
	defer obs.Time(ctx, "ledger."+l.dialect.name+".Run")(&err)

	if l.DB == nil {
		return errors.New("sql ledger: DB is nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	dbtx, err := l.DB.BeginTx(ctx, l.dialect.txOptions)
	if err != nil {
		return fmt.Errorf("sql ledger: begin tx: %w", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	tx := &sqlTx{
		ctx:     ctx,
		tx:      dbtx,
		dialect: &l.dialect,
		id:      uuid.NewString(),
		ts:      l.nowFn(),
		writes:  make(map[string][]byte),
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.flush(); err != nil {
		return err
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("sql ledger: commit tx: %w", err)
	}

	return nil
}

type sqlTx struct {
	ctx     context.Context
	tx      *sql.Tx
	dialect *dialect
	id      string
	ts      time.Time
	writes  map[string][]byte
	order   []string
}

func (t *sqlTx) GetState(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("sql ledger: get state: key must not be empty")
	}

	var value []byte
	err := t.tx.QueryRowContext(t.ctx, t.dialect.getState, []byte(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sql ledger: get state: %w", err)
	}

	return value, true, nil
}

func (t *sqlTx) PutState(key string, value []byte) error {
	if key == "" {
		return errors.New("sql ledger: put state: key must not be empty")
	}
	if len(value) == 0 {
		return errors.New("sql ledger: put state: value must not be empty")
	}

	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = append([]byte(nil), value...)
	return nil
}

// Rows stay open while iterating; callers finish or close the iterator
// before issuing the next statement.
func (t *sqlTx) GetStateByPartialCompositeKey(namespace string, fields []string) (ports.StateIterator, error) {
	start, end, err := domain.PartialKeyRange(namespace, fields...)
	if err != nil {
		return nil, fmt.Errorf("sql ledger: range: %w", err)
	}

	rows, err := t.tx.QueryContext(t.ctx, t.dialect.rangeState, []byte(start), []byte(end))
	if err != nil {
		return nil, fmt.Errorf("sql ledger: range: query ledger_state table: %w", err)
	}

	return &rowsStateIterator{rows: rows}, nil
}

func (t *sqlTx) GetHistoryForKey(key string) (ports.HistoryIterator, error) {
	rows, err := t.tx.QueryContext(t.ctx, t.dialect.keyHistory, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("sql ledger: history: query ledger_history table: %w", err)
	}

	return &rowsHistoryIterator{rows: rows}, nil
}

func (t *sqlTx) TxID() string { return t.id }

func (t *sqlTx) TxTimestamp() (time.Time, error) { return t.ts, nil }

func (t *sqlTx) flush() error {
	if len(t.order) == 0 {
		return nil
	}

	upsert, err := t.tx.PrepareContext(t.ctx, t.dialect.upsertState)
	if err != nil {
		return fmt.Errorf("sql ledger: prepare upsert: %w", err)
	}
	defer upsert.Close()

	history, err := t.tx.PrepareContext(t.ctx, t.dialect.insertHistory)
	if err != nil {
		return fmt.Errorf("sql ledger: prepare history insert: %w", err)
	}
	defer history.Close()

	for _, key := range t.order {
		value := t.writes[key]

		if _, err := upsert.ExecContext(t.ctx, []byte(key), value, t.id); err != nil {
			return fmt.Errorf("sql ledger: upsert state: %w", err)
		}
		if _, err := history.ExecContext(t.ctx, []byte(key), t.id, t.ts.UnixNano(), value); err != nil {
			return fmt.Errorf("sql ledger: insert history: %w", err)
		}
	}

	return nil
}

type rowsStateIterator struct {
	rows   *sql.Rows
	next   bool
	peeked bool
	closed bool
}

func (it *rowsStateIterator) HasNext() bool {
	if it.closed {
		return false
	}
	if !it.peeked {
		it.next = it.rows.Next()
		it.peeked = true
	}
	return it.next
}

func (it *rowsStateIterator) Next() (ports.KV, error) {
	if !it.HasNext() {
		if err := it.rows.Err(); err != nil {
			return ports.KV{}, fmt.Errorf("sql ledger: range: row iteration: %w", err)
		}
		return ports.KV{}, errIteratorExhausted
	}
	it.peeked = false

	var key, value []byte
	if err := it.rows.Scan(&key, &value); err != nil {
		return ports.KV{}, fmt.Errorf("sql ledger: range: scan row: %w", err)
	}
	return ports.KV{Key: string(key), Value: value}, nil
}

func (it *rowsStateIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if err := it.rows.Close(); err != nil {
		return err
	}
	return it.rows.Err()
}

type rowsHistoryIterator struct {
	rows   *sql.Rows
	next   bool
	peeked bool
	closed bool
}

func (it *rowsHistoryIterator) HasNext() bool {
	if it.closed {
		return false
	}
	if !it.peeked {
		it.next = it.rows.Next()
		it.peeked = true
	}
	return it.next
}

func (it *rowsHistoryIterator) Next() (ports.KeyModification, error) {
	if !it.HasNext() {
		if err := it.rows.Err(); err != nil {
			return ports.KeyModification{}, fmt.Errorf("sql ledger: history: row iteration: %w", err)
		}
		return ports.KeyModification{}, errIteratorExhausted
	}
	it.peeked = false

	var (
		txID     string
		tsNanos  int64
		isDelete bool
		value    []byte
	)
	if err := it.rows.Scan(&txID, &tsNanos, &isDelete, &value); err != nil {
		return ports.KeyModification{}, fmt.Errorf("sql ledger: history: scan row: %w", err)
	}

	return ports.KeyModification{
		TxID:      txID,
		Timestamp: time.Unix(0, tsNanos).UTC(),
		IsDelete:  isDelete,
		Value:     value,
	}, nil
}

func (it *rowsHistoryIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if err := it.rows.Close(); err != nil {
		return err
	}
	return it.rows.Err()
}
