package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
	"github.com/erazemk/knjiznica/internal/validator"
)

// Lookups fills the form dropdowns.
type Lookups struct {
	Statuses []model.Code
	Classes  []model.Code
	Members  []model.Code
}

func (s *Server) loadLookups(ctx context.Context) Lookups {
	var l Lookups
	var err error
	if l.Statuses, err = store.ListBookStatuses(ctx, s.DB); err != nil {
		slog.Error("failed to list book statuses", "error", err)
	}
	if l.Classes, err = store.ListBookClasses(ctx, s.DB); err != nil {
		slog.Error("failed to list book classes", "error", err)
	}
	if l.Members, err = store.ListMemberCodes(ctx, s.DB); err != nil {
		slog.Error("failed to list members", "error", err)
	}
	return l
}

type bookFormPage struct {
	PageData
	Lookups
	Book   *model.Book
	IsNew  bool
	Errors map[string]string
}

// BooksPage handles GET /. Filters come from the query string.
func (s *Server) BooksPage(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := model.BookQuery{
		Name:     strings.TrimSpace(params.Get("bookName")),
		ClassID:  params.Get("bookClassId"),
		KeeperID: params.Get("bookKeeperId"),
		StatusID: params.Get("bookStatusId"),
	}

	data := pageData(r, "Books")
	rawID := strings.TrimSpace(params.Get("bookId"))
	badID := false
	if rawID != "" {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			data.Error = "Book ID must be a number."
			badID = true
		}
		q.ID = id
	}

	var books []model.Book
	if !badID {
		var err error
		if books, err = store.QueryBooks(r.Context(), s.DB, q); err != nil {
			slog.Error("failed to query books", "error", err)
		}
	}

	s.Templates.Render(w, "books.html", &struct {
		PageData
		Lookups
		Query  model.BookQuery
		BookID string
		Books  []model.Book
	}{
		PageData: data,
		Lookups:  s.loadLookups(r.Context()),
		Query:    q,
		BookID:   rawID,
		Books:    books,
	})
}

// BookNewPage handles GET /books/new.
func (s *Server) BookNewPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "book_form.html", &bookFormPage{
		PageData: pageData(r, "New book"),
		Lookups:  s.loadLookups(r.Context()),
		Book:     &model.Book{BoughtDate: s.today().Format(model.BoughtDateLayout)},
		IsNew:    true,
	})
}

// BookCreateSubmit handles POST /books.
func (s *Server) BookCreateSubmit(w http.ResponseWriter, r *http.Request) {
	b := bookFromForm(r)

	v := validator.New()
	model.ValidateNewBook(v, b, s.today())
	if err := store.CheckBookReferences(r.Context(), s.DB, v, b.ClassID, ""); err != nil {
		slog.Error("failed to check book references", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !v.Valid() {
		s.Templates.RenderStatus(w, http.StatusBadRequest, "book_form.html", &bookFormPage{
			PageData: PageData{Title: "New book", Error: "Please correct the marked fields."},
			Lookups:  s.loadLookups(r.Context()),
			Book:     b,
			IsNew:    true,
			Errors:   v.Errors,
		})
		return
	}

	id, err := store.AddBook(r.Context(), s.DB, b)
	if err != nil {
		slog.Error("failed to add book", "error", err)
		http.Error(w, "failed to add book", http.StatusInternalServerError)
		return
	}

	slog.Info("book added", "book", id, "name", b.Name, "class", b.ClassID)
	http.Redirect(w, r, "/?ok=added", http.StatusSeeOther)
}

// BookDetailPage handles GET /books/{id}.
func (s *Server) BookDetailPage(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookFromPath(w, r)
	if !ok {
		return
	}

	records, err := store.GetBookLendRecords(r.Context(), s.DB, book.ID)
	if err != nil {
		slog.Error("failed to get lend records", "book", book.ID, "error", err)
	}

	s.Templates.Render(w, "book_detail.html", &struct {
		PageData
		Book        *model.Book
		LendRecords []model.BookLendRecord
	}{
		PageData:    pageData(r, book.Name),
		Book:        book,
		LendRecords: records,
	})
}

// BookEditPage handles GET /books/{id}/edit.
func (s *Server) BookEditPage(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookFromPath(w, r)
	if !ok {
		return
	}

	s.Templates.Render(w, "book_form.html", &bookFormPage{
		PageData: pageData(r, "Edit "+book.Name),
		Lookups:  s.loadLookups(r.Context()),
		Book:     book,
	})
}

// BookUpdateSubmit handles POST /books/{id}.
func (s *Server) BookUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b := bookFromForm(r)
	b.ID = id

	v := validator.New()
	model.ValidateBookUpdate(v, b, s.today())
	if err := store.CheckBookReferences(r.Context(), s.DB, v, b.ClassID, b.KeeperID); err != nil {
		slog.Error("failed to check book references", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !v.Valid() {
		s.Templates.RenderStatus(w, http.StatusBadRequest, "book_form.html", &bookFormPage{
			PageData: PageData{Title: "Edit book", Error: "Please correct the marked fields."},
			Lookups:  s.loadLookups(r.Context()),
			Book:     b,
			Errors:   v.Errors,
		})
		return
	}

	err = store.UpdateBook(r.Context(), s.DB, b)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to update book", "book", id, "error", err)
		http.Error(w, "failed to update book", http.StatusInternalServerError)
		return
	}

	slog.Info("book updated", "book", id, "status", b.StatusID, "keeper", b.KeeperID)
	http.Redirect(w, r, fmt.Sprintf("/books/%d?ok=updated", id), http.StatusSeeOther)
}

// BookDeleteSubmit handles POST /books/{id}/delete.
func (s *Server) BookDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	book, ok := s.bookFromPath(w, r)
	if !ok {
		return
	}

	if model.IsBorrowed(book.StatusID) {
		http.Redirect(w, r, fmt.Sprintf("/books/%d?err=borrowed", book.ID), http.StatusSeeOther)
		return
	}

	if err := store.DeleteBook(r.Context(), s.DB, book.ID); err != nil {
		slog.Error("failed to delete book", "book", book.ID, "error", err)
		http.Error(w, "failed to delete book", http.StatusInternalServerError)
		return
	}

	slog.Info("book deleted", "book", book.ID, "name", book.Name)
	http.Redirect(w, r, "/?ok=deleted", http.StatusSeeOther)
}

// bookFromPath loads the book named by the {id} path segment, writing an
// error response and returning false when it cannot.
func (s *Server) bookFromPath(w http.ResponseWriter, r *http.Request) (*model.Book, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	book, err := store.GetBook(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get book", "book", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if book == nil {
		http.Error(w, "book not found", http.StatusNotFound)
		return nil, false
	}
	return book, true
}

func bookFromForm(r *http.Request) *model.Book {
	return &model.Book{
		Name:       r.FormValue("bookName"),
		ClassID:    r.FormValue("bookClassId"),
		BoughtDate: strings.TrimSpace(r.FormValue("bookBoughtDate")),
		StatusID:   r.FormValue("bookStatusId"),
		KeeperID:   r.FormValue("bookKeeperId"),
		Author:     r.FormValue("bookAuthor"),
		Publisher:  r.FormValue("bookPublisher"),
		Note:       r.FormValue("bookNote"),
	}
}
