package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/db"
	"github.com/erazemk/knjiznica/internal/model"
)

// ErrNotFound is returned when a write targets a book that does not exist.
var ErrNotFound = errors.New("book not found")

// bookColumns selects a book with its joined display names. A blank name
// is replaced by model.UnnamedBook; any other name is returned as stored.
const bookColumns = `a.book_id,
	CASE WHEN TRIM(a.book_name) = '' THEN '` + model.UnnamedBook + `' ELSE a.book_name END AS book_name,
	a.book_class_id, b.book_class_name,
	a.book_bought_date,
	a.book_status, c.code_name AS book_status_name,
	COALESCE(a.book_keeper, '') AS book_keeper,
	COALESCE(d.user_cname, '') AS book_keeper_cname,
	COALESCE(d.user_ename, '') AS book_keeper_ename`

// QueryBooks returns books matching q, ordered by id.
func QueryBooks(ctx context.Context, database *sqlx.DB, q model.BookQuery) ([]model.Book, error) {
	query, args, err := buildBookQuery(db.Dialect(database.DriverName()), q)
	if err != nil {
		return nil, fmt.Errorf("building book query: %w", err)
	}

	var books []model.Book
	if err := database.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	return books, nil
}

func buildBookQuery(dialect string, q model.BookQuery) (string, []any, error) {
	var where []goqu.Expression
	if q.ID != 0 {
		where = append(where, goqu.I("a.book_id").Eq(q.ID))
	}
	if q.Name != "" {
		where = append(where, goqu.L(`a.book_name LIKE ? ESCAPE '\'`, "%"+escapeLike(q.Name)+"%"))
	}
	if q.ClassID != "" {
		where = append(where, goqu.I("a.book_class_id").Eq(q.ClassID))
	}
	if q.KeeperID != "" {
		where = append(where, goqu.I("a.book_keeper").Eq(q.KeeperID))
	}
	if q.StatusID != "" {
		where = append(where, goqu.I("a.book_status").Eq(q.StatusID))
	}

	return goqu.Dialect(dialect).
		From(goqu.T("book_data").As("a")).
		Select(goqu.L(bookColumns)).
		InnerJoin(goqu.T("book_class").As("b"),
			goqu.On(goqu.I("a.book_class_id").Eq(goqu.I("b.book_class_id")))).
		InnerJoin(goqu.T("book_code").As("c"),
			goqu.On(
				goqu.I("a.book_status").Eq(goqu.I("c.code_id")),
				goqu.I("c.code_type").Eq(model.CodeTypeBookStatus),
			)).
		LeftJoin(goqu.T("member_m").As("d"),
			goqu.On(goqu.I("a.book_keeper").Eq(goqu.I("d.user_id")))).
		Where(where...).
		Order(goqu.I("a.book_id").Asc()).
		Prepared(true).
		ToSQL()
}

// GetBook returns a book by ID, including its free-text fields.
// Returns nil when no book matches.
func GetBook(ctx context.Context, database *sqlx.DB, id int64) (*model.Book, error) {
	book := &model.Book{}
	err := database.GetContext(ctx, book, database.Rebind(
		`SELECT `+bookColumns+`,
		        a.book_author, a.book_publisher, a.book_note
		 FROM book_data a
		 JOIN book_class b ON b.book_class_id = a.book_class_id
		 JOIN book_code c ON c.code_id = a.book_status AND c.code_type = ?
		 LEFT JOIN member_m d ON d.user_id = a.book_keeper
		 WHERE a.book_id = ?`),
		model.CodeTypeBookStatus, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", err)
	}
	return book, nil
}

// AddBook inserts a new book and returns its ID. The book always starts
// available with no keeper, whatever the caller supplied.
func AddBook(ctx context.Context, database *sqlx.DB, b *model.Book) (int64, error) {
	var id int64
	err := database.QueryRowxContext(ctx, database.Rebind(
		`INSERT INTO book_data (
		     book_name, book_class_id, book_author, book_bought_date,
		     book_publisher, book_note, book_status, book_keeper,
		     book_amount, create_user, modify_user)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL, 0, ?, ?)
		 RETURNING book_id`),
		b.Name, b.ClassID, b.Author, b.BoughtDate,
		b.Publisher, b.Note, model.BookStatusAvailable,
		model.SystemUser, model.SystemUser,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("adding book: %w", err)
	}
	return id, nil
}

// UpdateBook overwrites a book's writable fields. Saving a book in a
// borrowed status appends a lend record for its keeper in the same
// transaction, on every save.
func UpdateBook(ctx context.Context, database *sqlx.DB, b *model.Book) error {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE book_data SET
		     book_name = ?, book_class_id = ?, book_author = ?, book_bought_date = ?,
		     book_publisher = ?, book_note = ?, book_status = ?, book_keeper = ?,
		     modify_date = CURRENT_TIMESTAMP, modify_user = ?
		 WHERE book_id = ?`),
		b.Name, b.ClassID, b.Author, b.BoughtDate,
		b.Publisher, b.Note, b.StatusID, nullIfEmpty(b.KeeperID),
		model.SystemUser, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if model.IsBorrowed(b.StatusID) {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO book_lend_record (book_id, keeper_id, lend_date, cre_usr, mod_usr)
			 VALUES (?, ?, ?, ?, ?)`),
			b.ID, b.KeeperID, time.Now().UTC(), model.SystemUser, model.SystemUser,
		)
		if err != nil {
			return fmt.Errorf("recording lend: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing book update: %w", err)
	}
	return nil
}

// DeleteBook removes a book. Lend records are kept.
func DeleteBook(ctx context.Context, database *sqlx.DB, id int64) error {
	_, err := database.ExecContext(ctx, database.Rebind(
		`DELETE FROM book_data WHERE book_id = ?`), id,
	)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

// GetBookLendRecords returns a book's lend history, newest first.
func GetBookLendRecords(ctx context.Context, database *sqlx.DB, bookID int64) ([]model.BookLendRecord, error) {
	var records []model.BookLendRecord
	err := database.SelectContext(ctx, &records, database.Rebind(
		`SELECT r.book_id, r.keeper_id, r.lend_date,
		        COALESCE(m.user_cname, '') AS book_keeper_cname,
		        COALESCE(m.user_ename, '') AS book_keeper_ename
		 FROM book_lend_record r
		 LEFT JOIN member_m m ON m.user_id = r.keeper_id
		 WHERE r.book_id = ?
		 ORDER BY r.lend_date DESC, r.id DESC`), bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting lend records: %w", err)
	}
	return records, nil
}

// nullIfEmpty maps a blank keeper to NULL.
func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
