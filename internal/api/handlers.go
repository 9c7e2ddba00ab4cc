package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/validate"
)

const (
	// maxBodyBytes bounds every JSON request body
	maxBodyBytes = 1 << 20

	bodyTooLargeMessage = "Request body too large"
	badBodyMessage      = "Invalid JSON body"
)

type factRequest struct {
	Fact any `json:"fact"`
}

type bulkRequest struct {
	Facts any `json:"facts"`
}

type fileRequest struct {
	FileContent any `json:"fileContent"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Model       string `json:"model"`
	APIProvider string `json:"api_provider"`
}

// decodeJSON reads a size-limited JSON body into v. Numbers are kept as
// json.Number so rejected facts echo back exactly as submitted.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, bodyTooLargeMessage)
			return false
		}
		respondError(w, http.StatusBadRequest, badBodyMessage)
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, badBodyMessage)
		return false
	}
	return true
}

// Single fact check
func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req factRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claim, err := validate.ValidateItem(req.Fact)
	if err != nil {
		respondError(w, http.StatusBadRequest, validate.ErrInvalidFact.Error())
		return
	}

	outcome := s.processor.ProcessFact(r.Context(), claim)
	if !outcome.OK() {
		s.logger.Error("fact check failed", zap.Stringer("kind", outcome.Kind), zap.String("error", outcome.Error))
		respondInternal(w, outcome.Error)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// Bulk fact check, 1 to 50 items
func (s *Server) handleFactCheckBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	facts, ok := req.Facts.([]any)
	if !ok {
		respondError(w, http.StatusBadRequest, validate.ErrBatchSize.Error())
		return
	}

	report, err := s.processor.ProcessFacts(r.Context(), facts)
	if err != nil {
		if errors.Is(err, validate.ErrBatchSize) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondInternal(w, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// File content check, one claim per line
func (s *Server) handleFactCheckFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, ok := req.FileContent.(string)
	if !ok {
		respondError(w, http.StatusBadRequest, validate.ErrFileSize.Error())
		return
	}

	lines, err := validate.SplitFileContent(content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, s.processor.ProcessLines(r.Context(), lines))
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(model.TimestampLayout),
		Model:       s.provider.Model(),
		APIProvider: s.provider.Name(),
	})
}
