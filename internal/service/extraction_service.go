package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"material-kb/internal/models"
	"material-kb/internal/parser"

	"go.uber.org/zap"
)

const (
	// CellSeparator joins the cells of one table row in extracted text.
	CellSeparator = " | "
	// RowTerminator ends every rendered row and paragraph.
	RowTerminator = "\n"
)

// Extraction is everything recovered from one document.
type Extraction struct {
	Text   string
	Tables []models.Table
}

type ExtractionService struct {
	parsers map[models.DocumentFormat]parser.Parser
	logger  *zap.Logger
}

func NewExtractionService(parsers map[models.DocumentFormat]parser.Parser, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		parsers: parsers,
		logger:  logger,
	}
}

// DetectFormat maps a file name to a format tag by extension, case-insensitively.
func DetectFormat(fileName string) (models.DocumentFormat, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	format := models.DocumentFormat(ext)
	if !format.Supported() {
		return "", &UnsupportedFormatError{Format: filepath.Ext(fileName)}
	}
	return format, nil
}

// Extract returns the document rendered as plain text. Parse failures are
// logged and yield an empty string; only an unknown format tag is an error.
func (s *ExtractionService) Extract(ctx context.Context, doc models.RawDocument) (string, error) {
	result, err := s.ExtractDocument(ctx, doc)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ExtractDocument parses the document once and returns both its text and its
// tables. A parse failure degrades to an empty Extraction.
func (s *ExtractionService) ExtractDocument(ctx context.Context, doc models.RawDocument) (*Extraction, error) {
	p, ok := s.parsers[doc.Format]
	if !ok || !doc.Format.Supported() {
		return nil, &UnsupportedFormatError{Format: string(doc.Format)}
	}

	content, err := p.Parse(ctx, doc.Content)
	if err != nil {
		s.logger.Warn("Document extraction failed, continuing with empty text",
			zap.String("document", doc.Name),
			zap.String("format", string(doc.Format)),
			zap.Error(fmt.Errorf("%w: %w", ErrExtractionFailure, err)),
		)
		return &Extraction{}, nil
	}

	text := sanitizeUTF8(RenderContent(content))

	s.logger.Info("Document extracted",
		zap.String("document", doc.Name),
		zap.String("format", string(doc.Format)),
		zap.Int("text_length", len(text)),
		zap.Int("tables", len(content.Tables)),
	)

	return &Extraction{Text: text, Tables: content.Tables}, nil
}

// RenderContent serializes parsed content. A lone paragraph is returned
// verbatim; otherwise paragraphs come first, one per line, followed by every
// table row with its cells joined by CellSeparator.
func RenderContent(content *parser.Content) string {
	if content == nil {
		return ""
	}
	if len(content.Tables) == 0 && len(content.Paragraphs) == 1 {
		return content.Paragraphs[0]
	}

	var b strings.Builder
	for _, p := range content.Paragraphs {
		b.WriteString(p)
		b.WriteString(RowTerminator)
	}
	for _, table := range content.Tables {
		b.WriteString(RenderRow(table.Header))
		b.WriteString(RowTerminator)
		for _, row := range table.Rows {
			b.WriteString(RenderRow(row))
			b.WriteString(RowTerminator)
		}
	}
	return b.String()
}

// RenderRow joins cells in column order.
func RenderRow(cells []string) string {
	return strings.Join(cells, CellSeparator)
}
