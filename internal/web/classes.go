package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/knjiznica/internal/imaging"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// ClassesPage handles GET /classes.
func (s *Server) ClassesPage(w http.ResponseWriter, r *http.Request) {
	classes, err := store.ListClasses(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list classes", "error", err)
	}

	s.Templates.Render(w, "classes.html", &struct {
		PageData
		Classes []model.BookClass
	}{
		PageData: pageData(r, "Book classes"),
		Classes:  classes,
	})
}

// ClassImageSubmit handles POST /classes/{id}/image.
func (s *Server) ClassImageSubmit(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	pic, err := imaging.Process(file)
	if err != nil {
		slog.Warn("rejected class image", "class", classID, "error", err)
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	err = store.SetClassImage(r.Context(), s.DB, classID, pic.Data, pic.MIME)
	if errors.Is(err, store.ErrClassNotFound) {
		http.Error(w, "book class not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to save class image", "class", classID, "error", err)
		http.Error(w, "failed to save image", http.StatusInternalServerError)
		return
	}

	slog.Info("class image uploaded", "class", classID, "width", pic.Width, "height", pic.Height)
	http.Redirect(w, r, "/classes?ok=image", http.StatusSeeOther)
}

// ClassImageGet handles GET /classes/{id}/image.
func (s *Server) ClassImageGet(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetClassImage(r.Context(), s.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get class image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
