package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/validator"
)

// ListBookStatuses returns the book status codes for dropdowns.
func ListBookStatuses(ctx context.Context, db *sqlx.DB) ([]model.Code, error) {
	var codes []model.Code
	err := db.SelectContext(ctx, &codes, db.Rebind(
		`SELECT code_id AS value, code_name AS label
		 FROM book_code WHERE code_type = ? ORDER BY code_id`),
		model.CodeTypeBookStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("listing book statuses: %w", err)
	}
	return codes, nil
}

// ListBookClasses returns the book classes for dropdowns.
func ListBookClasses(ctx context.Context, db *sqlx.DB) ([]model.Code, error) {
	var codes []model.Code
	err := db.SelectContext(ctx, &codes,
		`SELECT book_class_id AS value, book_class_name AS label
		 FROM book_class ORDER BY book_class_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing book classes: %w", err)
	}
	return codes, nil
}

// ListMemberCodes returns members as dropdown entries labelled with their
// display name.
func ListMemberCodes(ctx context.Context, db *sqlx.DB) ([]model.Code, error) {
	var codes []model.Code
	err := db.SelectContext(ctx, &codes,
		`SELECT user_id AS value, user_cname AS label
		 FROM member_m ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing member codes: %w", err)
	}
	return codes, nil
}

// ClassExists reports whether a book class with the given ID exists.
func ClassExists(ctx context.Context, db *sqlx.DB, id string) (bool, error) {
	return exists(ctx, db, `SELECT 1 FROM book_class WHERE book_class_id = ?`, id)
}

// MemberExists reports whether a member with the given ID exists.
func MemberExists(ctx context.Context, db *sqlx.DB, id string) (bool, error) {
	return exists(ctx, db, `SELECT 1 FROM member_m WHERE user_id = ?`, id)
}

func exists(ctx context.Context, db *sqlx.DB, query string, args ...any) (bool, error) {
	var one int
	err := db.GetContext(ctx, &one, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking existence: %w", err)
	}
	return true, nil
}

// SetClassImage stores a class image. Returns ErrClassNotFound if the
// class does not exist.
func SetClassImage(ctx context.Context, db *sqlx.DB, classID string, data []byte, mime string) error {
	result, err := db.ExecContext(ctx, db.Rebind(
		`UPDATE book_class SET image = ?, image_mime = ? WHERE book_class_id = ?`),
		data, mime, classID,
	)
	if err != nil {
		return fmt.Errorf("setting class image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return ErrClassNotFound
	}
	return nil
}

// GetClassImage returns a class image and its MIME type.
// Returns nil data if the class has no image or does not exist.
func GetClassImage(ctx context.Context, db *sqlx.DB, classID string) ([]byte, string, error) {
	var row struct {
		Image []byte         `db:"image"`
		Mime  sql.NullString `db:"image_mime"`
	}
	err := db.GetContext(ctx, &row, db.Rebind(
		`SELECT image, image_mime FROM book_class WHERE book_class_id = ?`), classID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting class image: %w", err)
	}
	return row.Image, row.Mime.String, nil
}

// ErrClassNotFound is returned when a write targets a missing book class.
var ErrClassNotFound = errors.New("book class not found")

// CheckBookReferences records field errors for a class or keeper that
// does not exist. Fields that already failed validation are skipped, as
// is an empty keeperID.
func CheckBookReferences(ctx context.Context, db *sqlx.DB, v *validator.Validator, classID, keeperID string) error {
	if _, failed := v.Errors["bookClassId"]; !failed && classID != "" {
		ok, err := ClassExists(ctx, db, classID)
		if err != nil {
			return err
		}
		v.Check(ok, "bookClassId", "unknown book class")
	}

	if _, failed := v.Errors["bookKeeperId"]; !failed && validator.NotBlank(keeperID) {
		ok, err := MemberExists(ctx, db, keeperID)
		if err != nil {
			return err
		}
		v.Check(ok, "bookKeeperId", "unknown member")
	}
	return nil
}

// ListClasses returns every book class and whether it has a picture.
func ListClasses(ctx context.Context, db *sqlx.DB) ([]model.BookClass, error) {
	var classes []model.BookClass
	err := db.SelectContext(ctx, &classes,
		`SELECT book_class_id, book_class_name,
		        CASE WHEN image IS NULL THEN 0 ELSE 1 END AS has_image
		 FROM book_class ORDER BY book_class_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing classes: %w", err)
	}
	return classes, nil
}
