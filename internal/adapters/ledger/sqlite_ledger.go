package ledger

import "database/sql"

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`
	CREATE TABLE IF NOT EXISTS ledger_state (
		state_key BLOB PRIMARY KEY,
		value BLOB NOT NULL,
		tx_id TEXT NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS ledger_history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		state_key BLOB NOT NULL,
		tx_id TEXT NOT NULL,
		committed_at_ns INTEGER NOT NULL,
		is_delete INTEGER NOT NULL DEFAULT 0,
		value BLOB
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_ledger_history_key_seq
	ON ledger_history(state_key, seq);
	`,
	},
	getState: `
	SELECT value
	FROM ledger_state
	WHERE state_key = ?;
	`,
	upsertState: `
	INSERT INTO ledger_state (state_key, value, tx_id)
	VALUES (?, ?, ?)
	ON CONFLICT (state_key) DO UPDATE
	SET value = excluded.value,
		tx_id = excluded.tx_id;
	`,
	insertHistory: `
	INSERT INTO ledger_history (state_key, tx_id, committed_at_ns, value)
	VALUES (?, ?, ?, ?);
	`,
	rangeState: `
	SELECT state_key, value
	FROM ledger_state
	WHERE state_key >= ? AND state_key < ?
	ORDER BY state_key;
	`,
	keyHistory: `
	SELECT tx_id, committed_at_ns, is_delete, value
	FROM ledger_history
	WHERE state_key = ?
	ORDER BY seq;
	`,
}

// SQLite-backed ledger (modernc.org/sqlite driver registered as "sqlite").
func NewSqliteLedger(db *sql.DB) *SQLLedger {
	return newSQLLedger(db, sqliteDialect)
}
