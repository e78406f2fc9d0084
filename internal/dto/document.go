package dto

type DocumentResponse struct {
	ID            string `json:"id"`
	WorkflowID    string `json:"workflow_id"`
	Format        string `json:"format"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size"`
	ExtractedText string `json:"extracted_text,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type IngestResponse struct {
	Document       DocumentResponse `json:"document"`
	WorkflowID     string           `json:"workflow_id"`
	ItemsExtracted int              `json:"items_extracted"`
	ItemsMatched   int              `json:"items_matched"`
	ItemsQueued    int              `json:"items_queued"`
	PendingIDs     []int64          `json:"pending_ids"`
	Matches        []MatchResponse  `json:"matches"`
}

type MatchResponse struct {
	OriginalItem map[string]string       `json:"original_item"`
	KBMatch      *KnowledgeEntryResponse `json:"kb_match"`
}
