package service

import (
	"fmt"
	"strings"

	"material-kb/internal/models"

	"go.uber.org/zap"
)

// ItemNormalizer maps raw tables onto canonical items with a fixed alias table
// validated when the normalizer is built.
type ItemNormalizer struct {
	aliases models.AliasTable
	logger  *zap.Logger
}

func NewItemNormalizer(aliases models.AliasTable, logger *zap.Logger) (*ItemNormalizer, error) {
	if err := aliases.Validate(); err != nil {
		return nil, fmt.Errorf("invalid alias table: %w", err)
	}
	return &ItemNormalizer{
		aliases: aliases,
		logger:  logger,
	}, nil
}

func (n *ItemNormalizer) Normalize(table models.Table) []models.Item {
	return Normalize(table, n.aliases, n.logger)
}

// NormalizeAll normalizes every table and concatenates the items in order.
func (n *ItemNormalizer) NormalizeAll(tables []models.Table) []models.Item {
	var items []models.Item
	for _, table := range tables {
		items = append(items, n.Normalize(table)...)
	}
	return items
}

// Normalize converts table rows to items. Unknown columns are dropped, empty
// cells are left out, and when several columns alias to one field the first
// column wins. Bad rows are skipped; a bad table yields no items. It never fails.
func Normalize(table models.Table, aliases models.AliasTable, logger *zap.Logger) []models.Item {
	items := []models.Item{}

	if err := aliases.Validate(); err != nil {
		logger.Error("Cannot normalize table, alias table is invalid", zap.Error(err))
		return items
	}
	if len(table.Header) == 0 {
		logger.Error("Cannot normalize table without a header row", zap.Int("rows", len(table.Rows)))
		return items
	}

	fields := resolveColumns(table.Header, aliases)
	if len(fields) == 0 {
		logger.Warn("Table has no recognised item columns", zap.Strings("header", table.Header))
		return items
	}

	for i, row := range table.Rows {
		item, err := convertRow(row, len(table.Header), fields)
		if err != nil {
			logger.Warn("Skipping row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if len(item) == 0 {
			continue
		}
		items = append(items, item)
	}

	return items
}

// resolveColumns maps header positions to canonical fields.
func resolveColumns(header []string, aliases models.AliasTable) map[int]string {
	fields := make(map[int]string)
	taken := make(map[string]bool)
	for i, column := range header {
		field, ok := aliases.Resolve(column)
		if !ok || taken[field] {
			continue
		}
		fields[i] = field
		taken[field] = true
	}
	return fields
}

func convertRow(row []string, width int, fields map[int]string) (models.Item, error) {
	if len(row) > width {
		for _, extra := range row[width:] {
			if strings.TrimSpace(extra) != "" {
				return nil, fmt.Errorf("%w: %d cells for %d columns", ErrRowConversion, len(row), width)
			}
		}
	}

	item := make(models.Item, len(fields))
	for idx, field := range fields {
		if idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(sanitizeUTF8(row[idx]))
		if value == "" {
			continue
		}
		item[field] = value
	}
	return item, nil
}
