package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the body of every API response.
type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// success writes a successful envelope.
func success(w http.ResponseWriter, message string, data any) {
	jsonResponse(w, http.StatusOK, envelope{Status: true, Message: message, Data: data})
}

// failure writes a failed envelope with the given HTTP status.
func failure(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{Message: message})
}

// validationFailure reports every rejected field.
func validationFailure(w http.ResponseWriter, errs map[string]string) {
	jsonResponse(w, http.StatusBadRequest, envelope{Message: "validation failed", Errors: errs})
}

// serverError logs err and writes a generic 500 envelope.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"error", err,
	)
	failure(w, http.StatusInternalServerError, message)
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// decodeBookID reads a book id sent either as a bare JSON number or as
// {"bookId": n}.
func decodeBookID(r *http.Request) (int64, error) {
	defer r.Body.Close()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}

	var wrapped struct {
		BookID int64 `json:"bookId"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, errors.New("book id must be a number")
	}
	return wrapped.BookID, nil
}
