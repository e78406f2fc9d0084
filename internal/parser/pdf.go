package parser

import (
	"context"
	"fmt"
	"strings"

	"material-kb/internal/models"

	"github.com/gen2brain/go-fitz"
)

// PDFParser extracts page text with go-fitz (MuPDF). Each non-empty page
// becomes one paragraph.
type PDFParser struct{}

func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

func (p *PDFParser) Format() models.DocumentFormat {
	return models.FormatPDF
}

func (p *PDFParser) Parse(ctx context.Context, content []byte) (*Content, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	out := &Content{}
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageText, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			out.Paragraphs = append(out.Paragraphs, pageText)
		}
	}

	return out, nil
}
