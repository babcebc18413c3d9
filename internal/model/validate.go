package model

import (
	"time"

	"github.com/erazemk/knjiznica/internal/validator"
)

// ValidateNewBook checks a book submitted for creation. Status and keeper
// are not checked because creation always stores an available book with
// no keeper.
func ValidateNewBook(v *validator.Validator, b *Book, today time.Time) {
	validateBookFields(v, b, today)
}

// ValidateBookUpdate checks a book submitted for update. The keeper is
// only required while the book is borrowed.
func ValidateBookUpdate(v *validator.Validator, b *Book, today time.Time) {
	v.Check(b.ID > 0, "bookId", "book id is required")
	validateBookFields(v, b, today)

	v.Check(validator.NotBlank(b.StatusID), "bookStatusId", "status is required")
	v.Check(b.StatusID == "" || validator.In(b.StatusID, BookStatuses...), "bookStatusId", "unknown status")

	if IsBorrowed(b.StatusID) {
		v.Check(validator.NotBlank(b.KeeperID), "bookKeeperId", "keeper is required while the book is borrowed")
	}
}

func validateBookFields(v *validator.Validator, b *Book, today time.Time) {
	v.Check(validator.NotBlank(b.Name), "bookName", "book name is required")
	v.Check(validator.NotBlank(b.ClassID), "bookClassId", "book class is required")
	v.Check(validator.NotBlank(b.Author), "bookAuthor", "author is required")
	v.Check(validator.NotBlank(b.Publisher), "bookPublisher", "publisher is required")
	v.Check(validator.NotBlank(b.Note), "bookNote", "note is required")

	if !validator.NotBlank(b.BoughtDate) {
		v.AddError("bookBoughtDate", "bought date is required")
		return
	}
	bought, err := time.Parse(BoughtDateLayout, b.BoughtDate)
	if err != nil {
		v.AddError("bookBoughtDate", "bought date must be formatted as YYYY-MM-DD")
		return
	}
	y, m, d := today.Date()
	v.Check(!bought.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), "bookBoughtDate", "bought date cannot be later than today")
}
