package repository

import (
	"context"
	"fmt"
	"time"

	"material-kb/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var pendingColumns = []string{
	"id", "workflow_id", "item_data", "status", "reviewed_by", "review_reason", "reviewed_at", "created_at",
}

// ApprovalRepository stores pending-approval records and their audit trail.
type ApprovalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewApprovalRepository(db *pgxpool.Pool, logger *zap.Logger) *ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePending inserts one pending record per payload and returns the new ids
// in payload order.
func (r *ApprovalRepository) CreatePending(ctx context.Context, workflowID string, payloads []string) ([]int64, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	now := time.Now()
	query := squirrel.Insert("pending_approvals").
		Columns("workflow_id", "item_data", "status", "created_at").
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)
	for _, payload := range payloads {
		query = query.Values(workflowID, payload, string(models.StatusPending), now)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, len(payloads))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *ApprovalRepository) GetPendingItems(ctx context.Context, workflowID string) ([]*models.PendingApproval, error) {
	return r.GetItemsByStatus(ctx, workflowID, models.StatusPending)
}

// GetItemsByStatus lists records in status ordered by id; an empty workflowID
// lists every workflow.
func (r *ApprovalRepository) GetItemsByStatus(ctx context.Context, workflowID string, status models.ApprovalStatus) ([]*models.PendingApproval, error) {
	query := squirrel.Select(pendingColumns...).
		From("pending_approvals").
		Where(squirrel.Eq{"status": string(status)}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if workflowID != "" {
		query = query.Where(squirrel.Eq{"workflow_id": workflowID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PendingApproval
	for rows.Next() {
		var (
			item   models.PendingApproval
			status string
		)
		if err := rows.Scan(
			&item.ID, &item.WorkflowID, &item.ItemData, &status, &item.ReviewedBy, &item.ReviewReason, &item.ReviewedAt, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Status = models.ApprovalStatus(status)
		items = append(items, &item)
	}

	return items, rows.Err()
}

// UpdateApprovalStatus moves the still-pending records of workflowID among ids
// to status and audits every move in the same transaction.
func (r *ApprovalRepository) UpdateApprovalStatus(
	ctx context.Context,
	workflowID string,
	ids []int64,
	status models.ApprovalStatus,
	actor, reason string,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if !status.Terminal() {
		return 0, fmt.Errorf("cannot move pending items to status %q", status)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	updateSQL, args, err := squirrel.Update("pending_approvals").
		Set("status", string(status)).
		Set("reviewed_by", actor).
		Set("review_reason", reason).
		Set("reviewed_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"workflow_id": workflowID,
			"id":          ids,
			"status":      string(models.StatusPending),
		}).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	rows, err := tx.Query(ctx, updateSQL, args...)
	if err != nil {
		return 0, err
	}
	moved, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, err
	}

	if len(moved) > 0 {
		audit := squirrel.Insert("approval_audit").
			Columns("pending_approval_id", "workflow_id", "from_status", "to_status", "actor", "reason").
			PlaceholderFormat(squirrel.Dollar)
		for _, id := range moved {
			audit = audit.Values(id, workflowID, string(models.StatusPending), string(status), actor, reason)
		}

		auditSQL, auditArgs, err := audit.ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, auditSQL, auditArgs...); err != nil {
			return 0, fmt.Errorf("failed to write approval audit: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	r.logger.Debug("Approval status updated",
		zap.String("workflow_id", workflowID),
		zap.String("status", string(status)),
		zap.Int("moved", len(moved)),
	)

	return int64(len(moved)), nil
}

// ListAudit returns the audit trail of a workflow in transition order.
func (r *ApprovalRepository) ListAudit(ctx context.Context, workflowID string) ([]*models.ApprovalAudit, error) {
	query := squirrel.Select("id", "pending_approval_id", "workflow_id", "from_status", "to_status", "actor", "reason", "created_at").
		From("approval_audit").
		Where(squirrel.Eq{"workflow_id": workflowID}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ApprovalAudit
	for rows.Next() {
		var (
			entry    models.ApprovalAudit
			from, to string
		)
		if err := rows.Scan(&entry.ID, &entry.PendingApprovalID, &entry.WorkflowID, &from, &to, &entry.Actor, &entry.Reason, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.FromStatus = models.ApprovalStatus(from)
		entry.ToStatus = models.ApprovalStatus(to)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
