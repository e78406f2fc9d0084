// Package parser turns raw document bytes into paragraphs and tables. It knows
// nothing about items; the extraction service decides how content is rendered.
package parser

import (
	"context"

	"material-kb/internal/models"
)

// Content is what a parser recovers from one document.
type Content struct {
	Paragraphs []string
	Tables     []models.Table
}

// Parser reads one document format.
type Parser interface {
	Format() models.DocumentFormat
	Parse(ctx context.Context, content []byte) (*Content, error)
}

// Registry returns the parsers for every supported format keyed by format tag.
func Registry() map[models.DocumentFormat]Parser {
	parsers := []Parser{
		NewPDFParser(),
		NewDOCXParser(),
		NewTextParser(),
		NewCSVParser(),
	}
	registry := make(map[models.DocumentFormat]Parser, len(parsers))
	for _, p := range parsers {
		registry[p.Format()] = p
	}
	return registry
}
