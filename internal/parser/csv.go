package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"material-kb/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a comma separated file into a single table. The first record
// is the header. Ragged rows are kept; the normalizer decides what to do with them.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Format() models.DocumentFormat {
	return models.FormatCSV
}

func (p *CSVParser) Parse(_ context.Context, content []byte) (*Content, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv has no header row")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := models.Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		table.Rows = append(table.Rows, record)
	}

	return &Content{Tables: []models.Table{table}}, nil
}
