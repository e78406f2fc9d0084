package dto

type KnowledgeEntryResponse struct {
	ID                  string `json:"id"`
	MaterialName        string `json:"material_name"`
	PartNumber          string `json:"part_number"`
	Description         string `json:"description"`
	ClassificationLabel string `json:"classification_label"`
	ConfidenceLevel     string `json:"confidence_level"`
	SupplierInfo        any    `json:"supplier_info"`
	WorkflowID          string `json:"workflow_id"`
	ApprovedBy          string `json:"approved_by"`
	CreatedAt           string `json:"created_at"`
}

type KnowledgeStatsResponse struct {
	TotalItems       int64            `json:"total_items"`
	ByConfidence     map[string]int64 `json:"by_confidence"`
	PendingApprovals int64            `json:"pending_approvals"`
	ApprovedItems    int64            `json:"approved_items"`
	RejectedItems    int64            `json:"rejected_items"`
}
