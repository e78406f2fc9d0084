package service

import (
	"encoding/json"
	"time"

	"material-kb/internal/dto"
	"material-kb/internal/models"
)

func toDocumentResponse(doc *models.Document, withText bool) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:         doc.ID.String(),
		WorkflowID: doc.WorkflowID,
		Format:     string(doc.Format),
		FileName:   doc.FileName,
		FileSize:   doc.FileSize,
		CreatedAt:  doc.CreatedAt.Format(time.RFC3339),
	}
	if withText {
		resp.ExtractedText = doc.ExtractedText
	}
	return resp
}

// ToKnowledgeEntryResponse renders an entry with its supplier info decoded.
func ToKnowledgeEntryResponse(entry *models.KnowledgeBaseEntry) *dto.KnowledgeEntryResponse {
	if entry == nil {
		return nil
	}
	var supplierInfo any = map[string]any{}
	if entry.SupplierInfo != "" {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(entry.SupplierInfo), &decoded); err == nil {
			supplierInfo = decoded
		}
	}
	return &dto.KnowledgeEntryResponse{
		ID:                  entry.ID.String(),
		MaterialName:        entry.MaterialName,
		PartNumber:          entry.PartNumber,
		Description:         entry.Description,
		ClassificationLabel: entry.ClassificationLabel,
		ConfidenceLevel:     entry.ConfidenceLevel,
		SupplierInfo:        supplierInfo,
		WorkflowID:          entry.WorkflowID,
		ApprovedBy:          entry.ApprovedBy,
		CreatedAt:           entry.CreatedAt.Format(time.RFC3339),
	}
}

func ToPendingApprovalResponse(record *models.PendingApproval) dto.PendingApprovalResponse {
	return dto.PendingApprovalResponse{
		ID:         record.ID,
		WorkflowID: record.WorkflowID,
		Status:     string(record.Status),
		ItemData:   record.ItemData,
		ParsedData: record.ParsedData,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	}
}

func ToApproveResponse(workflowID string, result *ApprovalResult) dto.ApproveResponse {
	resp := dto.ApproveResponse{
		WorkflowID:    workflowID,
		ApprovedCount: result.Approved,
		Transitioned:  result.Transitioned,
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, dto.ItemFailureResponse{
			ItemID: f.ItemID,
			Error:  f.Err.Error(),
		})
	}
	return resp
}

func ToStatsResponse(stats *models.KnowledgeStats) dto.KnowledgeStatsResponse {
	return dto.KnowledgeStatsResponse{
		TotalItems:       stats.TotalItems,
		ByConfidence:     stats.ByConfidence,
		PendingApprovals: stats.PendingApprovals,
		ApprovedItems:    stats.ApprovedItems,
		RejectedItems:    stats.RejectedItems,
	}
}

func ToAuditResponses(entries []*models.ApprovalAudit) []dto.AuditEntryResponse {
	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, dto.AuditEntryResponse{
			PendingApprovalID: e.PendingApprovalID,
			FromStatus:        string(e.FromStatus),
			ToStatus:          string(e.ToStatus),
			Actor:             e.Actor,
			Reason:            e.Reason,
			CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		})
	}
	return responses
}
