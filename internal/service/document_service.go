package service

import (
	"context"
	"fmt"
	"time"

	"material-kb/internal/dto"
	"material-kb/internal/models"
	"material-kb/pkg/logger"
	"material-kb/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var contentTypes = map[models.DocumentFormat]string{
	models.FormatPDF:  "application/pdf",
	models.FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	models.FormatTXT:  "text/plain; charset=utf-8",
	models.FormatCSV:  "text/csv; charset=utf-8",
}

// ContentType returns the MIME type stored alongside a document of format f.
func ContentType(f models.DocumentFormat) string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IngestRequest is one uploaded document. UploadedBy is nil for CLI ingestion.
type IngestRequest struct {
	UploadedBy *uuid.UUID
	FileName   string
	Content    []byte
}

// DocumentService runs the ingestion pipeline: store, extract, translate,
// normalize, match and enqueue for review.
type DocumentService struct {
	docRepo    DocumentStore
	objects    storage.Store
	extractor  *ExtractionService
	translator Translator
	normalizer *ItemNormalizer
	matcher    *MatchService
	approvals  *ApprovalService
	logger     *zap.Logger
}

func NewDocumentService(
	docRepo DocumentStore,
	objects storage.Store,
	extractor *ExtractionService,
	translator Translator,
	normalizer *ItemNormalizer,
	matcher *MatchService,
	approvals *ApprovalService,
	logger *zap.Logger,
) *DocumentService {
	if translator == nil {
		translator = NoopTranslator{}
	}
	return &DocumentService{
		docRepo:    docRepo,
		objects:    objects,
		extractor:  extractor,
		translator: translator,
		normalizer: normalizer,
		matcher:    matcher,
		approvals:  approvals,
		logger:     logger,
	}
}

// Ingest processes one document under a fresh workflow id. Items whose best
// match is a high-confidence entry with the same part number are already known
// and are not queued; everything else goes to the approval queue.
func (s *DocumentService) Ingest(ctx context.Context, req IngestRequest) (*dto.IngestResponse, error) {
	format, err := DetectFormat(req.FileName)
	if err != nil {
		return nil, err
	}

	workflowID := uuid.NewString()
	docID := uuid.New()
	log := logger.WithWorkflow(s.logger, workflowID)

	storageKey := fmt.Sprintf("%s/%s.%s", workflowID, docID, format)
	if err := s.objects.Put(ctx, storageKey, req.Content, ContentType(format)); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	// 1. Extract
	extraction, err := s.extractor.ExtractDocument(ctx, models.RawDocument{
		Name:    req.FileName,
		Format:  format,
		Content: req.Content,
	})
	if err != nil {
		return nil, err
	}

	// 2. Translate
	text := s.translator.Translate(ctx, extraction.Text)

	// 3. Normalize
	items := s.normalizer.NormalizeAll(extraction.Tables)

	// 4. Match
	var (
		matches []models.MatchResult
		queue   []models.PendingItemData
	)
	for _, item := range items {
		best := s.matcher.BestMatch(ctx, item)
		if best != nil {
			matches = append(matches, models.MatchResult{OriginalItem: item, KBMatch: best})
		}
		if isKnownItem(item, best) {
			continue
		}
		queue = append(queue, Annotate(item, best))
	}

	// 5. Enqueue
	pendingIDs, err := s.approvals.Enqueue(ctx, workflowID, queue)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:            docID,
		WorkflowID:    workflowID,
		UploadedBy:    req.UploadedBy,
		Format:        format,
		FileName:      req.FileName,
		FileSize:      int64(len(req.Content)),
		StorageKey:    storageKey,
		ExtractedText: sanitizeUTF8(text),
		CreatedAt:     time.Now(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		log.Warn("Failed to save document record", zap.String("document_id", docID.String()), zap.Error(err))
	}

	log.Info("Document ingested",
		zap.String("file", req.FileName),
		zap.Int("items", len(items)),
		zap.Int("matched", len(matches)),
		zap.Int("queued", len(pendingIDs)),
	)

	resp := &dto.IngestResponse{
		Document:       toDocumentResponse(doc, true),
		WorkflowID:     workflowID,
		ItemsExtracted: len(items),
		ItemsMatched:   len(matches),
		ItemsQueued:    len(pendingIDs),
		PendingIDs:     pendingIDs,
		Matches:        make([]dto.MatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dto.MatchResponse{
			OriginalItem: m.OriginalItem,
			KBMatch:      ToKnowledgeEntryResponse(m.KBMatch),
		})
	}
	return resp, nil
}

// ListDocuments lists documents uploaded by a reviewer, newest first.
func (s *DocumentService) ListDocuments(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.DocumentResponse, error) {
	docs, err := s.docRepo.ListByUploader(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		resp := toDocumentResponse(doc, false)
		responses[i] = &resp
	}
	return responses, nil
}

// DocumentContent loads the stored bytes of a document.
func (s *DocumentService) DocumentContent(ctx context.Context, id uuid.UUID) (*models.Document, []byte, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.objects.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load document content: %w", err)
	}
	return doc, data, nil
}

func isKnownItem(item models.Item, best *models.KnowledgeBaseEntry) bool {
	return samePart(item, best) && best.ConfidenceLevel == models.ConfidenceHigh
}
