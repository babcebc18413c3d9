package model

import "errors"

// Book is a catalog book. ClassName, StatusName and the keeper names are
// joined in on read and never written back.
type Book struct {
	ID          int64  `json:"bookId" db:"book_id"`
	Name        string `json:"bookName" db:"book_name"`
	ClassID     string `json:"bookClassId" db:"book_class_id"`
	ClassName   string `json:"bookClassName,omitempty" db:"book_class_name"`
	BoughtDate  string `json:"bookBoughtDate" db:"book_bought_date"`
	StatusID    string `json:"bookStatusId" db:"book_status"`
	StatusName  string `json:"bookStatusName,omitempty" db:"book_status_name"`
	KeeperID    string `json:"bookKeeperId" db:"book_keeper"`
	KeeperCname string `json:"bookKeeperCname,omitempty" db:"book_keeper_cname"`
	KeeperEname string `json:"bookKeeperEname,omitempty" db:"book_keeper_ename"`
	Author      string `json:"bookAuthor" db:"book_author"`
	Publisher   string `json:"bookPublisher" db:"book_publisher"`
	Note        string `json:"bookNote" db:"book_note"`
}

// Book statuses.
const (
	BookStatusAvailable         = "A"
	BookStatusUnavailable       = "U"
	BookStatusBorrowed          = "B"
	BookStatusBorrowedUnclaimed = "C"
)

// CodeTypeBookStatus is the book_code discriminator for status rows.
const CodeTypeBookStatus = "BOOK_STATUS"

// SystemUser is written to audit columns.
const SystemUser = "Admin"

// UnnamedBook replaces a blank book name on read.
const UnnamedBook = "(unnamed)"

// BoughtDateLayout is the canonical bought date format.
const BoughtDateLayout = "2006-01-02"

// ErrBookBorrowed is the refusal given when deleting a lent-out book.
var ErrBookBorrowed = errors.New("book is borrowed and cannot be deleted")

// BookStatuses lists every valid status code.
var BookStatuses = []string{
	BookStatusAvailable,
	BookStatusUnavailable,
	BookStatusBorrowed,
	BookStatusBorrowedUnclaimed,
}

// IsBorrowed reports whether status means a member holds the book.
func IsBorrowed(status string) bool {
	return status == BookStatusBorrowed || status == BookStatusBorrowedUnclaimed
}

// BookQuery filters a book search. Zero values match everything.
type BookQuery struct {
	ID       int64  `json:"bookId"`
	Name     string `json:"bookName"`
	ClassID  string `json:"bookClassId"`
	KeeperID string `json:"bookKeeperId"`
	StatusID string `json:"bookStatusId"`
}
