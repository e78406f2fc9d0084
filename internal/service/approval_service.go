package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"material-kb/internal/models"
	"material-kb/pkg/logger"

	"go.uber.org/zap"
)

const (
	// SystemActor is recorded when a decision is made without a reviewer identity.
	SystemActor = "system"

	DefaultApproveReason = "Approved for knowledge base"
	DefaultRejectReason  = "Rejected from knowledge base"
)

// ApprovalRequest is one approve or reject decision over a workflow batch.
type ApprovalRequest struct {
	WorkflowID string
	ItemIDs    []int64
	Actor      string
	Reason     string
}

// ApprovalResult reports an approve call. Approved counts knowledge base
// commits; Transitioned counts records moved out of pending.
type ApprovalResult struct {
	Approved     int
	Transitioned int64
	Failures     []ItemFailure
}

// RejectResult reports a reject call. Rejected is the number of requested ids;
// Affected is the number of pending records that actually changed.
type RejectResult struct {
	Rejected int
	Affected int64
}

// ApprovalService owns the pending-approval queue. Records only ever move from
// pending to approved or rejected and every move leaves an audit row.
type ApprovalService struct {
	approvals ApprovalStore
	knowledge KnowledgeStore
	logger    *zap.Logger
}

func NewApprovalService(approvals ApprovalStore, knowledge KnowledgeStore, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		approvals: approvals,
		knowledge: knowledge,
		logger:    logger,
	}
}

// Enqueue stores payloads as pending records of workflowID.
func (s *ApprovalService) Enqueue(ctx context.Context, workflowID string, items []models.PendingItemData) ([]int64, error) {
	if workflowID == "" {
		return nil, fmt.Errorf("%w: workflow id is required", ErrInvalidRequest)
	}
	if len(items) == 0 {
		return nil, nil
	}

	payloads := make([]string, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode pending item: %w", err)
		}
		payloads = append(payloads, string(raw))
	}

	ids, err := s.approvals.CreatePending(ctx, workflowID, payloads)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue pending items: %w", err)
	}
	return ids, nil
}

// ListPending returns pending records, optionally for one workflow, with their
// payload decoded into ParsedData. An undecodable payload gets an empty map.
func (s *ApprovalService) ListPending(ctx context.Context, workflowID string) ([]*models.PendingApproval, error) {
	records, err := s.approvals.GetPendingItems(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}

	for _, record := range records {
		parsed := map[string]any{}
		if err := json.Unmarshal([]byte(record.ItemData), &parsed); err != nil || parsed == nil {
			s.logger.Warn("Pending item payload is not valid JSON",
				zap.Int64("item_id", record.ID),
				zap.String("workflow_id", record.WorkflowID),
				zap.Error(err),
			)
			parsed = map[string]any{}
		}
		record.ParsedData = parsed
	}

	return records, nil
}

// Approve commits the requested pending records of the workflow to the
// knowledge base and then marks every requested id approved, whether or not
// its commit succeeded. Records that are no longer pending are skipped, so
// repeating a call commits nothing twice.
func (s *ApprovalService) Approve(ctx context.Context, req ApprovalRequest) (*ApprovalResult, error) {
	req, err := normalizeRequest(req, DefaultApproveReason)
	if err != nil {
		return nil, err
	}
	log := logger.WithWorkflow(s.logger, req.WorkflowID)
	result := &ApprovalResult{}
	if len(req.ItemIDs) == 0 {
		return result, nil
	}

	pending, err := s.approvals.GetPendingItems(ctx, req.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending items: %w", err)
	}

	requested := make(map[int64]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		requested[id] = true
	}

	for _, record := range pending {
		if !requested[record.ID] {
			continue
		}
		if err := s.commit(ctx, record, req); err != nil {
			if errors.Is(err, models.ErrAlreadyCommitted) {
				log.Info("Pending item already in knowledge base", zap.Int64("item_id", record.ID))
				continue
			}
			log.Warn("Failed to commit pending item", zap.Int64("item_id", record.ID), zap.Error(err))
			result.Failures = append(result.Failures, ItemFailure{ItemID: record.ID, Err: err})
			continue
		}
		result.Approved++
	}

	result.Transitioned, err = s.approvals.UpdateApprovalStatus(ctx, req.WorkflowID, req.ItemIDs, models.StatusApproved, req.Actor, req.Reason)
	if err != nil {
		log.Error("Failed to mark items approved", zap.Int64s("item_ids", req.ItemIDs), zap.Error(err))
		return result, fmt.Errorf("failed to update approval status: %w", err)
	}

	log.Info("Approval completed",
		zap.String("actor", req.Actor),
		zap.Int("requested", len(req.ItemIDs)),
		zap.Int("approved", result.Approved),
		zap.Int("failed", len(result.Failures)),
		zap.Int64("transitioned", result.Transitioned),
	)

	return result, nil
}

// Recommit retries the knowledge base commit of approved records, typically the
// ones an earlier Approve reported in Failures. Records already in the
// knowledge base are skipped and nothing changes status. The original reviewer
// stays recorded as approver when known.
func (s *ApprovalService) Recommit(ctx context.Context, req ApprovalRequest) (*ApprovalResult, error) {
	req, err := normalizeRequest(req, DefaultApproveReason)
	if err != nil {
		return nil, err
	}
	log := logger.WithWorkflow(s.logger, req.WorkflowID)
	result := &ApprovalResult{}
	if len(req.ItemIDs) == 0 {
		return result, nil
	}

	approved, err := s.approvals.GetItemsByStatus(ctx, req.WorkflowID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved items: %w", err)
	}

	requested := make(map[int64]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		requested[id] = true
	}

	for _, record := range approved {
		if !requested[record.ID] {
			continue
		}
		commitReq := req
		if record.ReviewedBy != nil && *record.ReviewedBy != "" {
			commitReq.Actor = *record.ReviewedBy
		}
		if err := s.commit(ctx, record, commitReq); err != nil {
			if errors.Is(err, models.ErrAlreadyCommitted) {
				continue
			}
			log.Warn("Failed to recommit approved item", zap.Int64("item_id", record.ID), zap.Error(err))
			result.Failures = append(result.Failures, ItemFailure{ItemID: record.ID, Err: err})
			continue
		}
		result.Approved++
	}

	log.Info("Recommit completed",
		zap.String("actor", req.Actor),
		zap.Int("requested", len(req.ItemIDs)),
		zap.Int("committed", result.Approved),
		zap.Int("failed", len(result.Failures)),
	)

	return result, nil
}

// Reject marks the requested ids rejected. The returned Rejected count is the
// number of requested ids; ids that are unknown, already decided or belong to
// another workflow are left untouched and only show up in Affected.
func (s *ApprovalService) Reject(ctx context.Context, req ApprovalRequest) (*RejectResult, error) {
	requestedCount := len(req.ItemIDs)
	req, err := normalizeRequest(req, DefaultRejectReason)
	if err != nil {
		return nil, err
	}
	result := &RejectResult{Rejected: requestedCount}
	if len(req.ItemIDs) == 0 {
		return result, nil
	}

	result.Affected, err = s.approvals.UpdateApprovalStatus(ctx, req.WorkflowID, req.ItemIDs, models.StatusRejected, req.Actor, req.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to update approval status: %w", err)
	}

	logger.WithWorkflow(s.logger, req.WorkflowID).Info("Rejection completed",
		zap.String("actor", req.Actor),
		zap.Int("requested", requestedCount),
		zap.Int64("affected", result.Affected),
	)

	return result, nil
}

// AuditTrail lists every status transition recorded for a workflow.
func (s *ApprovalService) AuditTrail(ctx context.Context, workflowID string) ([]*models.ApprovalAudit, error) {
	if workflowID == "" {
		return nil, fmt.Errorf("%w: workflow id is required", ErrInvalidRequest)
	}
	entries, err := s.approvals.ListAudit(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit trail: %w", err)
	}
	return entries, nil
}

func (s *ApprovalService) SearchKnowledge(ctx context.Context, query string, limit int) ([]*models.KnowledgeBaseEntry, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	entries, err := s.knowledge.SearchItems(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	return entries, nil
}

func (s *ApprovalService) Stats(ctx context.Context) (*models.KnowledgeStats, error) {
	stats, err := s.knowledge.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base stats: %w", err)
	}
	return stats, nil
}

func (s *ApprovalService) commit(ctx context.Context, record *models.PendingApproval, req ApprovalRequest) error {
	entry, err := BuildKnowledgeEntry(record, req.Actor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailure, err)
	}
	if _, err := s.knowledge.AddItem(ctx, entry); err != nil {
		if errors.Is(err, models.ErrAlreadyCommitted) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrCommitFailure, err)
	}
	return nil
}

// BuildKnowledgeEntry maps a pending payload onto a knowledge base entry. The
// raw payload is kept verbatim as metadata.
func BuildKnowledgeEntry(record *models.PendingApproval, actor string) (*models.KnowledgeBaseEntry, error) {
	var data models.PendingItemData
	if err := json.Unmarshal([]byte(record.ItemData), &data); err != nil {
		return nil, fmt.Errorf("invalid item payload: %w", err)
	}

	supplierInfo, err := json.Marshal(models.SupplierInfo{
		VendorName:         data.VendorName,
		MatchSource:        data.MatchSource,
		SupplierPartNumber: data.SupplierPartNumber,
		MatchedPartNumber:  data.MatchedPartNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode supplier info: %w", err)
	}

	pendingID := record.ID
	return &models.KnowledgeBaseEntry{
		MaterialName:        data.MaterialName,
		PartNumber:          data.PartNumber,
		Description:         data.SupplierDescription,
		ClassificationLabel: data.QAClassificationLabel,
		ConfidenceLevel:     data.QAConfidenceLevel,
		SupplierInfo:        string(supplierInfo),
		WorkflowID:          record.WorkflowID,
		ApprovedBy:          actor,
		Metadata:            record.ItemData,
		PendingApprovalID:   &pendingID,
	}, nil
}

func normalizeRequest(req ApprovalRequest, defaultReason string) (ApprovalRequest, error) {
	if req.WorkflowID == "" {
		return req, fmt.Errorf("%w: workflow id is required", ErrInvalidRequest)
	}
	if req.Actor == "" {
		req.Actor = SystemActor
	}
	if req.Reason == "" {
		req.Reason = defaultReason
	}
	req.ItemIDs = uniqueIDs(req.ItemIDs)
	return req, nil
}
