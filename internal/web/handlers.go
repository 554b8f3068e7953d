package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/csvplot/internal/core"
	"github.com/JonMunkholm/csvplot/internal/logging"
	"github.com/JonMunkholm/csvplot/internal/store"
	"github.com/JonMunkholm/csvplot/internal/web/templates"
)

const (
	// multipartOverhead is allowed on top of the file size for form framing.
	multipartOverhead = 1 << 20

	// maxJSONBody bounds plot requests.
	maxJSONBody = 1 << 20
)

type uploadResponse struct {
	Success bool `json:"success"`
	*core.UploadResult
}

type plotResponse struct {
	Success bool `json:"success"`
	*core.PlotResponse
}

type uploadsResponse struct {
	Success bool            `json:"success"`
	Uploads []store.Summary `json:"uploads"`
}

type statusResponse struct {
	Success bool                     `json:"success"`
	Storage string                   `json:"storage"`
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

// handleRoot reports that the API is up.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "CSV Plotter API is running!"})
}

// handleUpload accepts a multipart form with the CSV in the "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, core.ErrFileTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %w", errInvalidBody, err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, uploadResponse{Success: true, UploadResult: result})
}

// handlePlotData builds chart series for a stored upload.
func (s *Server) handlePlotData(w http.ResponseWriter, r *http.Request) {
	var req core.PlotRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %w", errInvalidBody, err))
		return
	}

	resp, err := s.service.PlotData(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, plotResponse{Success: true, PlotResponse: resp})
}

// handleListUploads lists recent uploads. The optional "limit" query
// parameter bounds the result.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: limit %q", errInvalidBody, v))
			return
		}
		limit = n
	}

	uploads, err := s.service.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, uploadsResponse{Success: true, Uploads: uploads})
}

// handleGetUpload returns the preview of a stored upload.
func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadUpload(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, uploadResponse{Success: true, UploadResult: result})
}

// handleStatus reports limiter usage and the storage backend.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	storage := "memory"
	if s.cfg.Database.UsesDatabase() {
		storage = "postgres"
	}
	writeJSON(w, statusResponse{
		Success: true,
		Storage: storage,
		Uploads: s.service.Limiter().Status(),
	})
}

// handleUploadPage renders the HTML preview of a stored upload.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	result, err := s.loadUpload(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.UploadPage(result).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render upload page", "error", err, "upload_id", result.UploadID)
	}
}

func (s *Server) loadUpload(r *http.Request) (*core.UploadResult, error) {
	raw := chi.URLParam(r, "uploadID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidUploadID, raw)
	}
	return s.service.Get(r.Context(), id)
}
