package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/knjiznica/internal/imaging"
	"github.com/erazemk/knjiznica/internal/model"
	"github.com/erazemk/knjiznica/internal/store"
)

// CodesHandler serves dropdown reference data and class pictures.
type CodesHandler struct {
	DB *sqlx.DB
}

func codeList(codes []model.Code) []model.Code {
	if codes == nil {
		return []model.Code{}
	}
	return codes
}

// BookStatuses handles /api/code/bookstatus.
func (h *CodesHandler) BookStatuses(w http.ResponseWriter, r *http.Request) {
	codes, err := store.ListBookStatuses(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list book statuses", err)
		return
	}
	success(w, "", codeList(codes))
}

// BookClasses handles /api/code/bookclass.
func (h *CodesHandler) BookClasses(w http.ResponseWriter, r *http.Request) {
	codes, err := store.ListBookClasses(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list book classes", err)
		return
	}
	success(w, "", codeList(codes))
}

// Members handles /api/code/member.
func (h *CodesHandler) Members(w http.ResponseWriter, r *http.Request) {
	codes, err := store.ListMemberCodes(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list members", err)
		return
	}
	success(w, "", codeList(codes))
}

// multipartOverhead is allowed on top of the image itself.
const multipartOverhead = 1 << 20

// UploadClassImage handles POST /api/code/bookclass/{id}/image.
func (h *CodesHandler) UploadClassImage(w http.ResponseWriter, r *http.Request) {
	classID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		failure(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		failure(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	pic, err := imaging.Process(file)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnsupported):
			failure(w, http.StatusBadRequest, "image must be JPEG, PNG, GIF, WebP or BMP")
		case errors.Is(err, imaging.ErrTooLarge):
			failure(w, http.StatusBadRequest, "image too large")
		default:
			failure(w, http.StatusBadRequest, "invalid image")
		}
		return
	}

	err = store.SetClassImage(r.Context(), h.DB, classID, pic.Data, pic.MIME)
	if errors.Is(err, store.ErrClassNotFound) {
		failure(w, http.StatusNotFound, "book class not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to save image", err)
		return
	}

	slog.Info("class image uploaded", "class", classID, "width", pic.Width, "height", pic.Height)
	success(w, "image uploaded", nil)
}

// GetClassImage handles GET /api/code/bookclass/{id}/image.
func (h *CodesHandler) GetClassImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetClassImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		serverError(w, r, "failed to get image", err)
		return
	}
	if data == nil {
		failure(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
