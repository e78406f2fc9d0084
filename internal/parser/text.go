package parser

import (
	"context"
	"errors"
	"unicode/utf8"

	"material-kb/internal/models"
)

// TextParser returns the document verbatim as a single paragraph.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Format() models.DocumentFormat {
	return models.FormatTXT
}

func (p *TextParser) Parse(_ context.Context, content []byte) (*Content, error) {
	if !utf8.Valid(content) {
		return nil, errors.New("text file is not valid UTF-8")
	}
	if len(content) == 0 {
		return &Content{}, nil
	}
	return &Content{Paragraphs: []string{string(content)}}, nil
}
