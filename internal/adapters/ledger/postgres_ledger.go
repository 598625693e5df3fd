package ledger

import "database/sql"

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`
	CREATE TABLE IF NOT EXISTS ledger_state (
		state_key BYTEA PRIMARY KEY,
		value BYTEA NOT NULL,
		tx_id TEXT NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS ledger_history (
		seq BIGSERIAL PRIMARY KEY,
		state_key BYTEA NOT NULL,
		tx_id TEXT NOT NULL,
		committed_at_ns BIGINT NOT NULL,
		is_delete BOOLEAN NOT NULL DEFAULT FALSE,
		value BYTEA
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_ledger_history_key_seq
	ON ledger_history(state_key, seq);
	`,
	},
	// Conflicting concurrent transactions fail at commit instead of
	// overwriting each other.
	txOptions: &sql.TxOptions{Isolation: sql.LevelSerializable},
	getState: `
	SELECT value
	FROM ledger_state
	WHERE state_key = $1;
	`,
	upsertState: `
	INSERT INTO ledger_state (state_key, value, tx_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (state_key) DO UPDATE
	SET value = EXCLUDED.value,
		tx_id = EXCLUDED.tx_id;
	`,
	insertHistory: `
	INSERT INTO ledger_history (state_key, tx_id, committed_at_ns, value)
	VALUES ($1, $2, $3, $4);
	`,
	rangeState: `
	SELECT state_key, value
	FROM ledger_state
	WHERE state_key >= $1 AND state_key < $2
	ORDER BY state_key;
	`,
	keyHistory: `
	SELECT tx_id, committed_at_ns, is_delete, value
	FROM ledger_history
	WHERE state_key = $1
	ORDER BY seq;
	`,
}

// Postgres-backed ledger over a database/sql handle opened with the pgx
// stdlib driver.
func NewPostgresLedger(db *sql.DB) *SQLLedger {
	return newSQLLedger(db, postgresDialect)
}
