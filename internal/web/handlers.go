package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// parseID extracts the {id} route parameter as an int64.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields
// so typos in field names surface instead of silently doing nothing.
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// readCSVUpload pulls the uploaded file out of the multipart form.
// It enforces the configured size limit and the .csv filename requirement.
func (s *Server) readCSVUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.badRequest(w, r, "file too large or invalid form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.badRequest(w, r, "no file provided")
		return nil, false
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		s.badRequest(w, r, "invalid file type, expected .csv")
		return nil, false
	}

	// The whole body is read up front; imports are bounded by request
	// size, not streamed.
	data, err := io.ReadAll(file)
	if err != nil {
		s.badRequest(w, r, "failed to read file")
		return nil, false
	}
	return data, true
}

// writeCSVAttachment writes CSV bytes as a downloadable attachment.
func writeCSVAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
