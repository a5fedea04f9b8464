package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tool_name TEXT NOT NULL,
		input_text TEXT,
		output_text TEXT,
		output_img TEXT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Input image references are stored one row per file instead of a
	-- comma-joined column, so filenames containing commas stay unambiguous.
	CREATE TABLE IF NOT EXISTS history_inputs (
		history_id INTEGER NOT NULL REFERENCES history(id),
		position INTEGER NOT NULL,
		filename TEXT NOT NULL,
		PRIMARY KEY (history_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_history_user_id ON history(user_id);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
