package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"material-kb/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var knowledgeColumns = []string{
	"id", "material_name", "part_number", "description", "classification_label", "confidence_level",
	"supplier_info::text", "workflow_id", "approved_by", "metadata::text", "pending_approval_id", "created_at",
}

// KnowledgeRepository stores approved materials. Rows are only ever inserted.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// AddItem inserts entry and returns its id. A second entry for the same
// pending record is refused with models.ErrAlreadyCommitted.
func (r *KnowledgeRepository) AddItem(ctx context.Context, entry *models.KnowledgeBaseEntry) (uuid.UUID, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	supplierInfo := entry.SupplierInfo
	if supplierInfo == "" {
		supplierInfo = "{}"
	}
	metadata := entry.Metadata
	if metadata == "" {
		metadata = "{}"
	}

	query := squirrel.Insert("knowledge_base").
		Columns("id", "material_name", "part_number", "description", "classification_label", "confidence_level",
			"supplier_info", "workflow_id", "approved_by", "metadata", "pending_approval_id", "created_at").
		Values(entry.ID, entry.MaterialName, entry.PartNumber, entry.Description, entry.ClassificationLabel, entry.ConfidenceLevel,
			squirrel.Expr("?::jsonb", supplierInfo), entry.WorkflowID, entry.ApprovedBy, squirrel.Expr("?::jsonb", metadata),
			entry.PendingApprovalID, entry.CreatedAt).
		Suffix("ON CONFLICT (pending_approval_id) DO NOTHING RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, models.ErrAlreadyCommitted
	}
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// SearchItems does a case-insensitive substring search over part number,
// material name and description. Entries whose part number equals the query
// come first, then insertion order. An empty query returns the first limit
// entries in insertion order.
func (r *KnowledgeRepository) SearchItems(ctx context.Context, queryText string, limit int) ([]*models.KnowledgeBaseEntry, error) {
	query := squirrel.Select(knowledgeColumns...).
		From("knowledge_base").
		PlaceholderFormat(squirrel.Dollar)

	if queryText != "" {
		pattern := "%" + escapeLike(queryText) + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"part_number": pattern},
			squirrel.ILike{"material_name": pattern},
			squirrel.ILike{"description": pattern},
		}).OrderByClause("LOWER(part_number) = LOWER(?) DESC", queryText)
	}
	query = query.OrderBy("created_at ASC", "id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
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

	var results []*models.KnowledgeBaseEntry
	for rows.Next() {
		var kb models.KnowledgeBaseEntry
		if err := rows.Scan(
			&kb.ID, &kb.MaterialName, &kb.PartNumber, &kb.Description, &kb.ClassificationLabel, &kb.ConfidenceLevel,
			&kb.SupplierInfo, &kb.WorkflowID, &kb.ApprovedBy, &kb.Metadata, &kb.PendingApprovalID, &kb.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, &kb)
	}

	return results, rows.Err()
}

func (r *KnowledgeRepository) GetStats(ctx context.Context) (*models.KnowledgeStats, error) {
	stats := &models.KnowledgeStats{ByConfidence: map[string]int64{}}

	confidenceSQL, args, err := squirrel.Select("confidence_level", "COUNT(*)").
		From("knowledge_base").
		GroupBy("confidence_level").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, confidenceSQL, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			level string
			count int64
		)
		if err := rows.Scan(&level, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByConfidence[level] = count
		stats.TotalItems += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusSQL, args, err := squirrel.Select("status", "COUNT(*)").
		From("pending_approvals").
		GroupBy("status").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, statusSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch models.ApprovalStatus(status) {
		case models.StatusPending:
			stats.PendingApprovals = count
		case models.StatusApproved:
			stats.ApprovedItems = count
		case models.StatusRejected:
			stats.RejectedItems = count
		}
	}

	return stats, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
