package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/csvplot/internal/csvdoc"
	"github.com/JonMunkholm/csvplot/internal/store"
)

// UploadResult describes a parsed upload: its columns, row count, metadata
// and the first rows for display.
type UploadResult struct {
	UploadID    uuid.UUID    `json:"uploadId"`
	FileName    string       `json:"fileName"`
	Columns     []string     `json:"columns"`
	RowCount    int          `json:"rowCount"`
	HasMetadata bool         `json:"hasMetadata"`
	Metadata    []string     `json:"metadata"`
	Preview     []csvdoc.Row `json:"preview"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func newUploadResult(u store.Upload, doc *csvdoc.Document, previewRows int) *UploadResult {
	return &UploadResult{
		UploadID:    u.ID,
		FileName:    u.FileName,
		Columns:     doc.Columns,
		RowCount:    len(doc.Rows),
		HasMetadata: doc.HasMetadata,
		Metadata:    doc.Metadata,
		Preview:     doc.Head(previewRows),
		CreatedAt:   u.CreatedAt,
	}
}
