package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
	"github.com/erazemk/knjiznica/internal/validator"
)

// BooksHandler handles the book maintenance endpoints.
type BooksHandler struct {
	DB *sqlx.DB

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

func (h *BooksHandler) today() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// Add handles POST /api/bookmaintain/addbook.
func (h *BooksHandler) Add(w http.ResponseWriter, r *http.Request) {
	var b model.Book
	if err := decodeJSON(r, &b); err != nil {
		failure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := validator.New()
	model.ValidateNewBook(v, &b, h.today())
	if err := store.CheckBookReferences(r.Context(), h.DB, v, b.ClassID, ""); err != nil {
		serverError(w, r, "failed to add book", err)
		return
	}
	if !v.Valid() {
		validationFailure(w, v.Errors)
		return
	}

	id, err := store.AddBook(r.Context(), h.DB, &b)
	if err != nil {
		serverError(w, r, "failed to add book", err)
		return
	}

	slog.Info("book added", "book", id, "name", b.Name, "class", b.ClassID)
	success(w, "book added", nil)
}

// Query handles POST /api/bookmaintain/querybook. The filter may be sent
// as JSON or as form fields.
func (h *BooksHandler) Query(w http.ResponseWriter, r *http.Request) {
	q, err := parseBookQuery(r)
	if err != nil {
		failure(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := store.QueryBooks(r.Context(), h.DB, q)
	if err != nil {
		serverError(w, r, "failed to query books", err)
		return
	}
	if books == nil {
		books = []model.Book{}
	}
	success(w, "", books)
}

func parseBookQuery(r *http.Request) (model.BookQuery, error) {
	var q model.BookQuery

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(r, &q); err != nil && !errors.Is(err, errEmptyBody) {
			return q, errors.New("invalid request body")
		}
		return q, nil
	}

	if err := r.ParseForm(); err != nil {
		return q, errors.New("invalid form")
	}
	if s := strings.TrimSpace(r.Form.Get("bookId")); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return q, errors.New("bookId must be a number")
		}
		q.ID = id
	}
	q.Name = r.Form.Get("bookName")
	q.ClassID = r.Form.Get("bookClassId")
	q.KeeperID = r.Form.Get("bookKeeperId")
	q.StatusID = r.Form.Get("bookStatusId")
	return q, nil
}

// Load handles POST /api/bookmaintain/loadbook. A missing book is a
// success with null data.
func (h *BooksHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, err := decodeBookID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := store.GetBook(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to load book", err)
		return
	}
	if book == nil {
		success(w, "book not found", nil)
		return
	}
	success(w, "", book)
}

// Update handles POST /api/bookmaintain/updatebook.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	var b model.Book
	if err := decodeJSON(r, &b); err != nil {
		failure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v := validator.New()
	model.ValidateBookUpdate(v, &b, h.today())
	if err := store.CheckBookReferences(r.Context(), h.DB, v, b.ClassID, b.KeeperID); err != nil {
		serverError(w, r, "failed to update book", err)
		return
	}
	if !v.Valid() {
		validationFailure(w, v.Errors)
		return
	}

	err := store.UpdateBook(r.Context(), h.DB, &b)
	if errors.Is(err, store.ErrNotFound) {
		failure(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to update book", err)
		return
	}

	slog.Info("book updated", "book", b.ID, "status", b.StatusID, "keeper", b.KeeperID)
	success(w, "book updated", nil)
}

// Delete handles POST /api/bookmaintain/deletebook. Borrowed books are
// refused with a false status rather than an HTTP error.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := decodeBookID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := store.GetBook(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to delete book", err)
		return
	}
	if book != nil && model.IsBorrowed(book.StatusID) {
		jsonResponse(w, http.StatusOK, envelope{Message: model.ErrBookBorrowed.Error()})
		return
	}

	if err := store.DeleteBook(r.Context(), h.DB, id); err != nil {
		serverError(w, r, "failed to delete book", err)
		return
	}

	slog.Info("book deleted", "book", id)
	success(w, "book deleted", nil)
}

// LendRecords handles POST /api/bookmaintain/booklendrecord.
func (h *BooksHandler) LendRecords(w http.ResponseWriter, r *http.Request) {
	id, err := decodeBookID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := store.GetBookLendRecords(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get lend records", err)
		return
	}
	if records == nil {
		records = []model.BookLendRecord{}
	}
	success(w, "", records)
}
