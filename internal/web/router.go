package web

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	webembed "github.com/erazemk/knjiznica/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sqlx.DB) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.BooksPage)
	mux.HandleFunc("GET /books/new", s.BookNewPage)
	mux.HandleFunc("POST /books", s.BookCreateSubmit)
	mux.HandleFunc("GET /books/{id}", s.BookDetailPage)
	mux.HandleFunc("GET /books/{id}/edit", s.BookEditPage)
	mux.HandleFunc("POST /books/{id}", s.BookUpdateSubmit)
	mux.HandleFunc("POST /books/{id}/delete", s.BookDeleteSubmit)

	mux.HandleFunc("GET /classes", s.ClassesPage)
	mux.HandleFunc("POST /classes/{id}/image", s.ClassImageSubmit)
	mux.HandleFunc("GET /classes/{id}/image", s.ClassImageGet)

	return mux, nil
}
