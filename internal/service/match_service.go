package service

import (
	"context"
	"fmt"
	"strings"

	"material-kb/internal/models"

	"go.uber.org/zap"
)

const defaultSearchLimit = 50

// MatchService looks up extracted items in the knowledge base. Lookups are
// best effort: a failed lookup means "no match" for that item.
type MatchService struct {
	store  KnowledgeStore
	limit  int
	logger *zap.Logger
}

func NewMatchService(store KnowledgeStore, limit int, logger *zap.Logger) *MatchService {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &MatchService{
		store:  store,
		limit:  limit,
		logger: logger,
	}
}

// FindMatches returns one result per item that has at least one candidate,
// in item order. Items without candidates are omitted.
func (s *MatchService) FindMatches(ctx context.Context, items []models.Item) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(items))
	for _, item := range items {
		best := s.BestMatch(ctx, item)
		if best == nil {
			continue
		}
		results = append(results, models.MatchResult{
			OriginalItem: item,
			KBMatch:      best,
		})
	}
	return results
}

// BestMatch searches by part number (empty means unfiltered) and selects the
// best candidate, or nil when there is none or the lookup failed.
func (s *MatchService) BestMatch(ctx context.Context, item models.Item) *models.KnowledgeBaseEntry {
	partNumber := item.Get(models.FieldPartNumber)
	candidates, err := s.store.SearchItems(ctx, partNumber, s.limit)
	if err != nil {
		s.logger.Warn("Knowledge base lookup failed, treating item as unmatched",
			zap.String("part_number", partNumber),
			zap.Error(fmt.Errorf("%w: %w", ErrMatchLookup, err)),
		)
		return nil
	}
	return SelectBestMatch(candidates)
}

// SelectBestMatch prefers the first high-confidence candidate and otherwise
// falls back to the first candidate. It returns nil only for an empty list.
func SelectBestMatch(candidates []*models.KnowledgeBaseEntry) *models.KnowledgeBaseEntry {
	var first *models.KnowledgeBaseEntry
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if first == nil {
			first = c
		}
		if c.ConfidenceLevel == models.ConfidenceHigh {
			return c
		}
	}
	return first
}

// Annotate builds the pending payload for an item and its match, if any. The
// item keeps its own identity: a match only contributes QA labels when it is
// the same part, and is otherwise recorded as provenance.
func Annotate(item models.Item, match *models.KnowledgeBaseEntry) models.PendingItemData {
	data := models.PendingItemData{
		MaterialName:        item.Get(models.FieldMaterialName),
		PartNumber:          item.Get(models.FieldPartNumber),
		Description:         item.Get(models.FieldDescription),
		VendorName:          item.Get(models.FieldVendorName),
		UOM:                 item.Get(models.FieldUOM),
		SupplierDescription: item.Get(models.FieldDescription),
		SupplierPartNumber:  item.Get(models.FieldPartNumber),
		MatchSource:         models.MatchSourceNone,
	}
	if match == nil {
		return data
	}
	data.MatchSource = models.MatchSourceKnowledgeBase
	data.MatchedPartNumber = match.PartNumber
	if samePart(item, match) {
		data.QAClassificationLabel = match.ClassificationLabel
		data.QAConfidenceLevel = match.ConfidenceLevel
	}
	return data
}

// samePart reports whether match carries the item's own non-empty part number.
func samePart(item models.Item, match *models.KnowledgeBaseEntry) bool {
	partNumber := strings.TrimSpace(item.Get(models.FieldPartNumber))
	return match != nil &&
		partNumber != "" &&
		strings.EqualFold(strings.TrimSpace(match.PartNumber), partNumber)
}
