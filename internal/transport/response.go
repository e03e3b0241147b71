package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps POST bodies. CSV exports of a few thousand rows stay
// far below it.
const maxBodyBytes = 64 << 20

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SaveCSVRequest is the body of POST /api/save-csv.
type SaveCSVRequest struct {
	OriginalPath string `json:"originalPath"`
	CSVContent   string `json:"csvContent"`
}

// SaveCommentsRequest is the body of POST /api/save-comments. CommentsData
// is opaque to the server.
type SaveCommentsRequest struct {
	FilePath     string          `json:"filePath"`
	CommentsData json.RawMessage `json:"commentsData"`
}

// decodeJSON parses a request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("parse error: trailing data after JSON body")
	}
	return nil
}

// writeJSON writes payload with non-ASCII text left unescaped.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

// writeRawJSON writes bytes that are already JSON.
func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
