package server

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Handler serves files from a FileReader by request path.
//
// It keeps no per-request state: the content type travels as a value from
// classification to the response, so concurrent requests never share it.
type Handler struct {
	files  FileReader
	logger zerolog.Logger
}

// NewHandler creates a handler reading from files
func NewHandler(files FileReader, logger zerolog.Logger) *Handler {
	return &Handler{
		files:  files,
		logger: logger,
	}
}

// ServeHTTP answers every request with the resolved file or a 404.
// The request method is ignored.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	fileName := ResolveFileName(r.URL.Path)

	status, written, outcome := h.respond(w, fileName)

	h.logger.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("file", fileName).
		Str("outcome", outcome).
		Int("status", status).
		Int("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

func (h *Handler) respond(w http.ResponseWriter, fileName string) (status, written int, outcome string) {
	contentType, ok := Classify(fileName)
	if !ok {
		// A nil entry stops net/http from sniffing a Content-Type for the body.
		w.Header()["Content-Type"] = nil
		status, written = notFound(w, fileName)
		return status, written, "rejected"
	}

	// Set before the read so the 404 for a missing file carries it too.
	w.Header().Set("Content-Type", contentType)

	content, err := h.files.ReadFile(fileName)
	if err != nil {
		h.logger.Debug().Err(err).Str("file", fileName).Msg("File read failed")
		status, written = notFound(w, fileName)
		return status, written, "unreadable"
	}

	w.WriteHeader(http.StatusOK)
	written, _ = w.Write(content)
	return http.StatusOK, written, "served"
}

// notFound finalizes the response with the standard "<file> Not Found" body
func notFound(w http.ResponseWriter, fileName string) (int, int) {
	w.WriteHeader(http.StatusNotFound)
	n, _ := io.WriteString(w, fileName+" Not Found")
	return http.StatusNotFound, n
}
