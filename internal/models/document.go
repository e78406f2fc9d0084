package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFormat is the declared format tag of a raw supplier document.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatTXT  DocumentFormat = "txt"
	FormatCSV  DocumentFormat = "csv"
)

// SupportedFormats lists every format the pipeline accepts.
var SupportedFormats = []DocumentFormat{FormatPDF, FormatDOCX, FormatTXT, FormatCSV}

func (f DocumentFormat) Supported() bool {
	for _, s := range SupportedFormats {
		if f == s {
			return true
		}
	}
	return false
}

// RawDocument is the uploaded content handed to the extractor. It is consumed once.
type RawDocument struct {
	Name    string
	Format  DocumentFormat
	Content []byte
}

// Document is the bookkeeping row kept for every ingested upload.
type Document struct {
	ID            uuid.UUID      `db:"id"`
	WorkflowID    string         `db:"workflow_id"`
	UploadedBy    *uuid.UUID     `db:"uploaded_by"`
	Format        DocumentFormat `db:"format"`
	FileName      string         `db:"file_name"`
	FileSize      int64          `db:"file_size"`
	StorageKey    string         `db:"storage_key"`
	ExtractedText string         `db:"extracted_text"`
	CreatedAt     time.Time      `db:"created_at"`
}
