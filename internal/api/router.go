package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

// Options tunes the API router.
type Options struct {
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sqlx.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	books := &BooksHandler{DB: db}
	codes := &CodesHandler{DB: db}

	mux.HandleFunc("POST /api/bookmaintain/addbook", books.Add)
	mux.HandleFunc("POST /api/bookmaintain/querybook", books.Query)
	mux.HandleFunc("POST /api/bookmaintain/loadbook", books.Load)
	mux.HandleFunc("POST /api/bookmaintain/updatebook", books.Update)
	mux.HandleFunc("POST /api/bookmaintain/deletebook", books.Delete)
	mux.HandleFunc("POST /api/bookmaintain/booklendrecord", books.LendRecords)

	for _, method := range []string{"GET", "POST"} {
		mux.HandleFunc(method+" /api/code/bookstatus", codes.BookStatuses)
		mux.HandleFunc(method+" /api/code/bookclass", codes.BookClasses)
		mux.HandleFunc(method+" /api/code/member", codes.Members)
	}

	mux.HandleFunc("POST /api/code/bookclass/{id}/image", codes.UploadClassImage)
	mux.HandleFunc("GET /api/code/bookclass/{id}/image", codes.GetClassImage)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		failure(w, http.StatusNotFound, "not found")
	})

	return RecoverMiddleware(RateLimitMiddleware(opts.RateLimit, opts.RateBurst)(mux))
}
