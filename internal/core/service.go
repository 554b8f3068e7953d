package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	"github.com/JonMunkholm/csvplot/internal/csvdoc"
	"github.com/JonMunkholm/csvplot/internal/logging"
	"github.com/JonMunkholm/csvplot/internal/store"
)

// Upload validation errors.
var (
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFile       = errors.New("empty file")
	ErrInvalidFileType = errors.New("invalid file type: only CSV files are allowed")
	ErrInvalidUploadID = errors.New("invalid upload id")
)

// DefaultPreviewRows is how many rows an UploadResult carries by default.
const DefaultPreviewRows = 10

// UploadStore persists uploaded files. Implemented by store.MemoryStore and
// store.PostgresStore.
type UploadStore interface {
	Save(ctx context.Context, u store.Upload) error
	Get(ctx context.Context, id uuid.UUID) (*store.Upload, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ServiceConfig tunes upload handling.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration

	// Fallback decodes uploads that are not valid UTF-8; nil replaces bad bytes.
	Fallback encoding.Encoding

	Parse csvdoc.Options

	// PreviewRows bounds UploadResult.Preview; negative selects DefaultPreviewRows.
	PreviewRows int
}

// Service provides the upload and plot operations.
type Service struct {
	store   UploadStore
	limiter *UploadLimiter
	cfg     ServiceConfig
	now     func() time.Time
}

// NewService creates a Service backed by st.
func NewService(st UploadStore, cfg ServiceConfig) (*Service, error) {
	if st == nil {
		return nil, errors.New("upload store is required")
	}
	if err := cfg.Parse.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parse options: %w", err)
	}
	if cfg.PreviewRows < 0 {
		cfg.PreviewRows = DefaultPreviewRows
	}

	return &Service{
		store:   st,
		limiter: NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// Limiter exposes the upload limiter for status reporting and shutdown.
func (s *Service) Limiter() *UploadLimiter {
	return s.limiter
}

// Upload decodes, parses and stores a CSV file and returns its preview.
// The client IP and User-Agent are taken from ctx when present.
func (s *Service) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (*UploadResult, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if !isCSV(fileName, contentType) {
		return nil, ErrInvalidFileType
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	text, err := DecodeUpload(r, s.cfg.MaxFileSize, s.cfg.Fallback)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFile
	}

	doc, err := csvdoc.Parse(text, s.cfg.Parse)
	if err != nil {
		return nil, err
	}

	u := store.Upload{
		ID:         uuid.New(),
		FileName:   filepath.Base(fileName),
		Content:    text,
		Size:       int64(len(text)),
		RemoteAddr: IPAddressFromContext(ctx),
		UserAgent:  UserAgentFromContext(ctx),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	logging.WithFields(ctx, "upload_id", u.ID, "file_name", u.FileName).Info("upload parsed",
		"columns", len(doc.Columns),
		"rows", len(doc.Rows),
		"has_metadata", doc.HasMetadata,
		"bytes", u.Size,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return newUploadResult(u, doc, s.cfg.PreviewRows), nil
}

// Get re-parses a stored upload and returns its preview.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UploadResult, error) {
	u, doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	return newUploadResult(*u, doc, s.cfg.PreviewRows), nil
}

// Document loads a stored upload and parses it.
func (s *Service) Document(ctx context.Context, id uuid.UUID) (*store.Upload, *csvdoc.Document, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load upload %s: %w", id, err)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}
	defer s.limiter.Release()

	doc, err := csvdoc.Parse(u.Content, s.cfg.Parse)
	if err != nil {
		return nil, nil, err
	}
	return u, doc, nil
}

// PlotData builds chart series for a stored upload.
func (s *Service) PlotData(ctx context.Context, req PlotRequest) (*PlotResponse, error) {
	if req.UploadID == "" || req.XColumn == "" || len(req.YColumns) == 0 {
		return nil, ErrMissingPlotColumns
	}
	chartType, err := ParseChartType(req.ChartType)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(req.UploadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUploadID, req.UploadID)
	}

	_, doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := BuildPlot(doc, req.XColumn, req.YColumns)
	if err != nil {
		return nil, err
	}

	logging.WithFields(ctx, "upload_id", id).Debug("plot data built",
		"x_column", req.XColumn,
		"series", len(data.Datasets),
		"points", len(data.Labels),
	)

	return &PlotResponse{
		PlotData:  *data,
		XColumn:   req.XColumn,
		YColumns:  req.YColumns,
		ChartType: chartType,
	}, nil
}

// isCSV accepts files with a .csv extension or a text/csv content type.
func isCSV(fileName, contentType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}
