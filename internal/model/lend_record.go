package model

import "time"

// BookLendRecord is one row of a book's borrowing history. Rows are only
// ever appended, by saving a book in a borrowed status.
type BookLendRecord struct {
	BookID   int64     `json:"bookId" db:"book_id"`
	KeeperID string    `json:"bookKeeperId" db:"keeper_id"`
	LendDate time.Time `json:"lendDate" db:"lend_date"`

	// Joined fields.
	KeeperCname string `json:"bookKeeperCname" db:"book_keeper_cname"`
	KeeperEname string `json:"bookKeeperEname" db:"book_keeper_ename"`
}
