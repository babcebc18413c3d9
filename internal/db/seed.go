package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/model"
)

// bookStatuses are the lending states a book can be in.
var bookStatuses = []struct{ id, name string }{
	{model.BookStatusAvailable, "Available"},
	{model.BookStatusUnavailable, "Unavailable"},
	{model.BookStatusBorrowed, "Borrowed"},
	{model.BookStatusBorrowedUnclaimed, "Borrowed (unclaimed)"},
}

// bookClasses is the catalog classification.
var bookClasses = []struct{ id, name string }{
	{"BK", "Banking"},
	{"DB", "Databases"},
	{"LG", "Languages"},
	{"LR", "Leisure reading"},
	{"MG", "Management"},
	{"MK", "Marketing"},
	{"NW", "Networking"},
	{"OS", "Operating systems"},
	{"OT", "Other"},
	{"SC", "Security"},
	{"SECD", "Secure coding"},
	{"TRCD", "Travel"},
}

// seed inserts reference codes. Existing rows are left untouched.
func seed(db *sqlx.DB) error {
	insertCode := db.Rebind(
		`INSERT INTO book_code (code_type, code_id, code_name) VALUES (?, ?, ?)
		 ON CONFLICT (code_type, code_id) DO NOTHING`)
	for _, s := range bookStatuses {
		if _, err := db.Exec(insertCode, model.CodeTypeBookStatus, s.id, s.name); err != nil {
			return fmt.Errorf("inserting status %s: %w", s.id, err)
		}
	}

	insertClass := db.Rebind(
		`INSERT INTO book_class (book_class_id, book_class_name) VALUES (?, ?)
		 ON CONFLICT (book_class_id) DO NOTHING`)
	for _, c := range bookClasses {
		if _, err := db.Exec(insertClass, c.id, c.name); err != nil {
			return fmt.Errorf("inserting class %s: %w", c.id, err)
		}
	}

	return nil
}
