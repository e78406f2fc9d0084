package models

import "time"

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Match sources recorded in the pending payload.
const (
	MatchSourceNone          = "none"
	MatchSourceKnowledgeBase = "knowledge_base"
)

// PendingApproval is a candidate item awaiting review. ItemData holds the JSON
// payload exactly as stored; ParsedData is filled in when listing.
type PendingApproval struct {
	ID           int64          `db:"id" json:"id"`
	WorkflowID   string         `db:"workflow_id" json:"workflow_id"`
	ItemData     string         `db:"item_data" json:"item_data"`
	Status       ApprovalStatus `db:"status" json:"status"`
	ReviewedBy   *string        `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewReason *string        `db:"review_reason" json:"review_reason,omitempty"`
	ReviewedAt   *time.Time     `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`

	ParsedData map[string]any `db:"-" json:"parsed_data"`
}

// PendingItemData is the typed view of a pending payload: the canonical item
// plus provenance gathered during ingestion.
type PendingItemData struct {
	MaterialName          string `json:"material_name,omitempty"`
	PartNumber            string `json:"part_number,omitempty"`
	Description           string `json:"description,omitempty"`
	VendorName            string `json:"vendor_name,omitempty"`
	UOM                   string `json:"uom,omitempty"`
	SupplierDescription   string `json:"supplier_description,omitempty"`
	QAClassificationLabel string `json:"qa_classification_label,omitempty"`
	QAConfidenceLevel     string `json:"qa_confidence_level,omitempty"`
	MatchSource           string `json:"match_source,omitempty"`
	SupplierPartNumber    string `json:"supplier_part_number,omitempty"`
	MatchedPartNumber     string `json:"matched_part_number,omitempty"`
}

// ApprovalAudit is one immutable status transition.
type ApprovalAudit struct {
	ID                int64          `db:"id"`
	PendingApprovalID int64          `db:"pending_approval_id"`
	WorkflowID        string         `db:"workflow_id"`
	FromStatus        ApprovalStatus `db:"from_status"`
	ToStatus          ApprovalStatus `db:"to_status"`
	Actor             string         `db:"actor"`
	Reason            string         `db:"reason"`
	CreatedAt         time.Time      `db:"created_at"`
}
