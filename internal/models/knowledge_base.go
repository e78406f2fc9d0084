package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfidenceHigh is the confidence level that wins match selection.
const ConfidenceHigh = "high"

// KnowledgeBaseEntry is an approved material. Entries are append-only.
type KnowledgeBaseEntry struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	MaterialName        string    `db:"material_name" json:"material_name"`
	PartNumber          string    `db:"part_number" json:"part_number"`
	Description         string    `db:"description" json:"description"`
	ClassificationLabel string    `db:"classification_label" json:"classification_label"`
	ConfidenceLevel     string    `db:"confidence_level" json:"confidence_level"`
	SupplierInfo        string    `db:"supplier_info" json:"supplier_info"` // JSON document
	WorkflowID          string    `db:"workflow_id" json:"workflow_id"`
	ApprovedBy          string    `db:"approved_by" json:"approved_by"`
	Metadata            string    `db:"metadata" json:"metadata"` // raw pending payload
	PendingApprovalID   *int64    `db:"pending_approval_id" json:"pending_approval_id,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// SupplierInfo is the sub-document bundled into KnowledgeBaseEntry.SupplierInfo.
type SupplierInfo struct {
	VendorName         string `json:"vendor_name"`
	MatchSource        string `json:"match_source"`
	SupplierPartNumber string `json:"supplier_part_number"`
	MatchedPartNumber  string `json:"matched_part_number,omitempty"`
}

// KnowledgeStats summarizes the knowledge base and the approval queue.
type KnowledgeStats struct {
	TotalItems       int64            `json:"total_items"`
	ByConfidence     map[string]int64 `json:"by_confidence"`
	PendingApprovals int64            `json:"pending_approvals"`
	ApprovedItems    int64            `json:"approved_items"`
	RejectedItems    int64            `json:"rejected_items"`
}
