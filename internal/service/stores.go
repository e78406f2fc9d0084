package service

import (
	"context"

	"material-kb/internal/models"

	"github.com/google/uuid"
)

// KnowledgeStore is the knowledge base side of the persistence collaborator.
type KnowledgeStore interface {
	// SearchItems returns entries matching query in store order. An empty
	// query is unfiltered and returns up to limit entries.
	SearchItems(ctx context.Context, query string, limit int) ([]*models.KnowledgeBaseEntry, error)
	GetStats(ctx context.Context) (*models.KnowledgeStats, error)
	// AddItem appends an entry. It returns models.ErrAlreadyCommitted when the
	// entry's pending record was committed before.
	AddItem(ctx context.Context, entry *models.KnowledgeBaseEntry) (uuid.UUID, error)
}

// ApprovalStore is the pending-approval side of the persistence collaborator.
type ApprovalStore interface {
	CreatePending(ctx context.Context, workflowID string, payloads []string) ([]int64, error)
	// GetPendingItems lists records still in pending status; an empty
	// workflowID lists every workflow.
	GetPendingItems(ctx context.Context, workflowID string) ([]*models.PendingApproval, error)
	GetItemsByStatus(ctx context.Context, workflowID string, status models.ApprovalStatus) ([]*models.PendingApproval, error)
	// UpdateApprovalStatus moves the pending records of workflowID among ids to
	// status, writing one audit row per transition, and returns how many moved.
	UpdateApprovalStatus(ctx context.Context, workflowID string, ids []int64, status models.ApprovalStatus, actor, reason string) (int64, error)
	ListAudit(ctx context.Context, workflowID string) ([]*models.ApprovalAudit, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByUploader(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
