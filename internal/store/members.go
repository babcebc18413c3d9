package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/model"
)

// CreateMember registers a member and returns it.
func CreateMember(ctx context.Context, db *sqlx.DB, id, cname, ename string) (*model.Member, error) {
	_, err := db.ExecContext(ctx, db.Rebind(
		`INSERT INTO member_m (user_id, user_cname, user_ename) VALUES (?, ?, ?)`),
		id, cname, ename,
	)
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}
	return GetMember(ctx, db, id)
}

// GetMember returns a member by ID.
func GetMember(ctx context.Context, db *sqlx.DB, id string) (*model.Member, error) {
	m := &model.Member{}
	err := db.GetContext(ctx, m, db.Rebind(
		`SELECT user_id, user_cname, user_ename, created_at
		 FROM member_m WHERE user_id = ?`), id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// ListMembers returns all members ordered by ID.
func ListMembers(ctx context.Context, db *sqlx.DB) ([]model.Member, error) {
	var members []model.Member
	err := db.SelectContext(ctx, &members,
		`SELECT user_id, user_cname, user_ename, created_at
		 FROM member_m ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}
