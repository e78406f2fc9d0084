package dto

type ApprovalDecisionRequest struct {
	ItemIDs []int64 `json:"item_ids" validate:"required,min=1"`
	Reason  string  `json:"reason,omitempty"`
}

type PendingApprovalResponse struct {
	ID         int64          `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	Status     string         `json:"status"`
	ItemData   string         `json:"item_data"`
	ParsedData map[string]any `json:"parsed_data"`
	CreatedAt  string         `json:"created_at"`
}

type ItemFailureResponse struct {
	ItemID int64  `json:"item_id"`
	Error  string `json:"error"`
}

type ApproveResponse struct {
	WorkflowID    string                `json:"workflow_id"`
	ApprovedCount int                   `json:"approved_count"`
	Transitioned  int64                 `json:"transitioned"`
	Failures      []ItemFailureResponse `json:"failures,omitempty"`
}

type RejectResponse struct {
	WorkflowID    string `json:"workflow_id"`
	RejectedCount int    `json:"rejected_count"`
	Affected      int64  `json:"affected"`
}

type AuditEntryResponse struct {
	PendingApprovalID int64  `json:"pending_approval_id"`
	FromStatus        string `json:"from_status"`
	ToStatus          string `json:"to_status"`
	Actor             string `json:"actor"`
	Reason            string `json:"reason"`
	CreatedAt         string `json:"created_at"`
}
