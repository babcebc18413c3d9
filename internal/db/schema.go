package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema is the full database schema for SQLite.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS book_code (
    code_type TEXT NOT NULL,
    code_id   TEXT NOT NULL,
    code_name TEXT NOT NULL,
    PRIMARY KEY (code_type, code_id)
);

CREATE TABLE IF NOT EXISTS book_class (
    book_class_id   TEXT PRIMARY KEY,
    book_class_name TEXT NOT NULL,
    image           BLOB,
    image_mime      TEXT
);

CREATE TABLE IF NOT EXISTS member_m (
    user_id    TEXT PRIMARY KEY,
    user_cname TEXT NOT NULL,
    user_ename TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS book_data (
    book_id          INTEGER PRIMARY KEY,
    book_name        TEXT NOT NULL,
    book_class_id    TEXT NOT NULL REFERENCES book_class(book_class_id),
    book_author      TEXT NOT NULL,
    book_bought_date TEXT NOT NULL,
    book_publisher   TEXT NOT NULL,
    book_note        TEXT NOT NULL,
    book_status      TEXT NOT NULL DEFAULT 'A' CHECK (book_status IN ('A', 'U', 'B', 'C')),
    book_keeper      TEXT REFERENCES member_m(user_id),
    book_amount      INTEGER NOT NULL DEFAULT 0,
    create_date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    create_user      TEXT NOT NULL,
    modify_date      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modify_user      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS book_lend_record (
    id        INTEGER PRIMARY KEY,
    book_id   INTEGER NOT NULL,
    keeper_id TEXT NOT NULL,
    lend_date DATETIME NOT NULL,
    cre_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    cre_usr   TEXT NOT NULL,
    mod_date  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    mod_usr   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_book_lend_record_book_date
    ON book_lend_record(book_id, lend_date);
`

// postgresSchema is the full database schema for PostgreSQL.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS book_code (
    code_type TEXT NOT NULL,
    code_id   TEXT NOT NULL,
    code_name TEXT NOT NULL,
    PRIMARY KEY (code_type, code_id)
);

CREATE TABLE IF NOT EXISTS book_class (
    book_class_id   TEXT PRIMARY KEY,
    book_class_name TEXT NOT NULL,
    image           BYTEA,
    image_mime      TEXT
);

CREATE TABLE IF NOT EXISTS member_m (
    user_id    TEXT PRIMARY KEY,
    user_cname TEXT NOT NULL,
    user_ename TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS book_data (
    book_id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    book_name        TEXT NOT NULL,
    book_class_id    TEXT NOT NULL REFERENCES book_class(book_class_id),
    book_author      TEXT NOT NULL,
    book_bought_date TEXT NOT NULL,
    book_publisher   TEXT NOT NULL,
    book_note        TEXT NOT NULL,
    book_status      TEXT NOT NULL DEFAULT 'A' CHECK (book_status IN ('A', 'U', 'B', 'C')),
    book_keeper      TEXT REFERENCES member_m(user_id),
    book_amount      INTEGER NOT NULL DEFAULT 0,
    create_date      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    create_user      TEXT NOT NULL,
    modify_date      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modify_user      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS book_lend_record (
    id        BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    book_id   BIGINT NOT NULL,
    keeper_id TEXT NOT NULL,
    lend_date TIMESTAMPTZ NOT NULL,
    cre_date  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    cre_usr   TEXT NOT NULL,
    mod_date  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
    mod_usr   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_book_lend_record_book_date
    ON book_lend_record(book_id, lend_date);
`

// EnsureSchema creates all tables and indexes if they don't already exist
// and loads the reference codes.
func EnsureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := seed(db); err != nil {
		return fmt.Errorf("seeding reference data: %w", err)
	}
	return nil
}
