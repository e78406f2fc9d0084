package service

import (
	"context"
	"errors"
	"testing"

	"material-kb/internal/models"
	"material-kb/internal/parser"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type ingestFixture struct {
	svc       *DocumentService
	docs      *memDocumentStore
	objects   *memObjectStore
	approvals *memApprovalStore
	knowledge *memKnowledgeStore
}

func newIngestFixture(t *testing.T, translator Translator) *ingestFixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	f := &ingestFixture{
		docs:      &memDocumentStore{},
		objects:   newMemObjectStore(),
		approvals: newMemApprovalStore(),
		knowledge: &memKnowledgeStore{},
	}
	normalizer, err := NewItemNormalizer(models.DefaultAliasTable(), log)
	require.NoError(t, err)

	f.svc = NewDocumentService(
		f.docs,
		f.objects,
		NewExtractionService(parser.Registry(), log),
		translator,
		normalizer,
		NewMatchService(f.knowledge, 10, log),
		NewApprovalService(f.approvals, f.knowledge, log),
		log,
	)
	return f
}

const itemsCSV = "Item Code,Item Name,Supplier,UoM\nX1,Bolt,Acme,pcs\nX2,Nut,Acme,pcs\n"

func TestIngest_QueuesNewItems(t *testing.T) {
	f := newIngestFixture(t, nil)
	user := uuid.New()

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{UploadedBy: &user, FileName: "items.csv", Content: []byte(itemsCSV)})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.WorkflowID)
	assert.Equal(t, 2, resp.ItemsExtracted)
	assert.Equal(t, 0, resp.ItemsMatched)
	assert.Equal(t, 2, resp.ItemsQueued)
	assert.Len(t, resp.PendingIDs, 2)
	assert.Equal(t, "csv", resp.Document.Format)
	assert.Contains(t, resp.Document.ExtractedText, "X1 | Bolt | Acme | pcs")

	pending, err := f.svc.approvals.ListPending(context.Background(), resp.WorkflowID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "X1", pending[0].ParsedData["part_number"])
	assert.Equal(t, "Acme", pending[0].ParsedData["vendor_name"])
	assert.Equal(t, models.MatchSourceNone, pending[0].ParsedData["match_source"])

	require.Len(t, f.docs.docs, 1)
	stored, err := f.objects.Get(context.Background(), f.docs.docs[0].StorageKey)
	require.NoError(t, err)
	assert.Equal(t, itemsCSV, string(stored))
}

func TestIngest_MatchedItems(t *testing.T) {
	f := newIngestFixture(t, nil)
	f.knowledge.entries = []*models.KnowledgeBaseEntry{
		{PartNumber: "X1", MaterialName: "Hex bolt", ConfidenceLevel: models.ConfidenceHigh, ClassificationLabel: "fastener"},
		{PartNumber: "X2", MaterialName: "Nut", ConfidenceLevel: "low", ClassificationLabel: "fastener"},
	}

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte(itemsCSV)})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ItemsMatched)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "Hex bolt", resp.Matches[0].KBMatch.MaterialName)

	// X1 is already known with high confidence; only X2 needs review.
	assert.Equal(t, 1, resp.ItemsQueued)
	pending, err := f.svc.approvals.ListPending(context.Background(), resp.WorkflowID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "X2", pending[0].ParsedData["part_number"])
	assert.Equal(t, models.MatchSourceKnowledgeBase, pending[0].ParsedData["match_source"])
	assert.Equal(t, "low", pending[0].ParsedData["qa_confidence_level"])
}

func TestIngest_ItemWithoutPartNumberIsAlwaysQueued(t *testing.T) {
	f := newIngestFixture(t, nil)
	f.knowledge.entries = []*models.KnowledgeBaseEntry{{PartNumber: "X9", ConfidenceLevel: models.ConfidenceHigh}}

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte("Item Name\nWasher\n")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ItemsMatched)
	assert.Equal(t, 1, resp.ItemsQueued)
}

func TestIngest_MatchOfAnotherPartDoesNotLeakIntoKnowledgeBase(t *testing.T) {
	tests := []struct {
		name     string
		entries  []*models.KnowledgeBaseEntry
		content  string
		wantPart string
	}{
		{
			name: "substring part number",
			entries: []*models.KnowledgeBaseEntry{
				{PartNumber: "A10", MaterialName: "Gate valve", ConfidenceLevel: models.ConfidenceHigh, ClassificationLabel: "valve"},
			},
			content:  "Item Code,Description\nA1,M8 bolt\n",
			wantPart: "A1",
		},
		{
			name: "no part number",
			entries: []*models.KnowledgeBaseEntry{
				{PartNumber: "X9", MaterialName: "Hydraulic pump", ConfidenceLevel: models.ConfidenceHigh, ClassificationLabel: "pump"},
			},
			content: "Description,Supplier\nWasher M8,Acme\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIngestFixture(t, nil)
			f.knowledge.entries = tt.entries

			resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte(tt.content)})
			require.NoError(t, err)
			require.Equal(t, 1, resp.ItemsQueued)

			pending, err := f.svc.approvals.ListPending(context.Background(), resp.WorkflowID)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.NotContains(t, pending[0].ParsedData, "material_name")
			assert.NotContains(t, pending[0].ParsedData, "qa_classification_label")
			assert.Equal(t, tt.entries[0].PartNumber, pending[0].ParsedData["matched_part_number"])

			_, err = f.svc.approvals.Approve(context.Background(), ApprovalRequest{WorkflowID: resp.WorkflowID, ItemIDs: resp.PendingIDs})
			require.NoError(t, err)

			require.Len(t, f.knowledge.entries, len(tt.entries)+1)
			committed := f.knowledge.entries[len(tt.entries)]
			assert.Equal(t, tt.wantPart, committed.PartNumber)
			assert.Empty(t, committed.MaterialName)
			assert.Empty(t, committed.ClassificationLabel)
			assert.Empty(t, committed.ConfidenceLevel)
		})
	}
}

func TestIngest_TranslatesExtractedText(t *testing.T) {
	llm := &fakeCompleter{reply: "Translated"}
	translator := newTranslationService(llm, testTranslationConfig(), zaptest.NewLogger(t))
	f := newIngestFixture(t, translator)

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "note.txt", Content: []byte("原文")})
	require.NoError(t, err)
	assert.Equal(t, "Translated", resp.Document.ExtractedText)
	assert.Equal(t, 0, resp.ItemsQueued)
}

func TestIngest_Errors(t *testing.T) {
	f := newIngestFixture(t, nil)

	_, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.xlsx", Content: []byte("x")})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f.objects.putErr = errors.New("bucket missing")
	_, err = f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte(itemsCSV)})
	assert.ErrorContains(t, err, "bucket missing")
	f.objects.putErr = nil

	f.approvals.createErr = errors.New("db down")
	_, err = f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte(itemsCSV)})
	assert.ErrorContains(t, err, "db down")
}

func TestIngest_DocumentRecordFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture(t, nil)
	f.docs.createErr = errors.New("constraint violation")

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "items.csv", Content: []byte(itemsCSV)})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ItemsQueued)
}

func TestIngest_UnreadableDocumentQueuesNothing(t *testing.T) {
	f := newIngestFixture(t, nil)

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{FileName: "broken.docx", Content: []byte("not a zip")})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ItemsExtracted)
	assert.Empty(t, resp.PendingIDs)
}

func TestListDocumentsAndContent(t *testing.T) {
	f := newIngestFixture(t, nil)
	user := uuid.New()

	resp, err := f.svc.Ingest(context.Background(), IngestRequest{UploadedBy: &user, FileName: "items.csv", Content: []byte(itemsCSV)})
	require.NoError(t, err)
	_, err = f.svc.Ingest(context.Background(), IngestRequest{FileName: "other.csv", Content: []byte(itemsCSV)})
	require.NoError(t, err)

	docs, err := f.svc.ListDocuments(context.Background(), user, 10, 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, resp.Document.ID, docs[0].ID)
	assert.Empty(t, docs[0].ExtractedText)

	doc, data, err := f.svc.DocumentContent(context.Background(), uuid.MustParse(resp.Document.ID))
	require.NoError(t, err)
	assert.Equal(t, "items.csv", doc.FileName)
	assert.Equal(t, itemsCSV, string(data))

	_, _, err = f.svc.DocumentContent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
