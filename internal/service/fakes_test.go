package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"material-kb/internal/models"

	"github.com/google/uuid"
)

type memKnowledgeStore struct {
	mu        sync.Mutex
	entries   []*models.KnowledgeBaseEntry
	searchErr error
	addErr    map[int64]error
	searches  []string
}

func (s *memKnowledgeStore) SearchItems(_ context.Context, query string, limit int) ([]*models.KnowledgeBaseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, query)
	if s.searchErr != nil {
		return nil, s.searchErr
	}

	q := strings.ToLower(query)
	var exact, other []*models.KnowledgeBaseEntry
	for _, e := range s.entries {
		switch {
		case q != "" && strings.EqualFold(e.PartNumber, q):
			exact = append(exact, e)
		case q == "" ||
			strings.Contains(strings.ToLower(e.PartNumber), q) ||
			strings.Contains(strings.ToLower(e.MaterialName), q) ||
			strings.Contains(strings.ToLower(e.Description), q):
			other = append(other, e)
		}
	}
	out := append(exact, other...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memKnowledgeStore) GetStats(_ context.Context) (*models.KnowledgeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.KnowledgeStats{ByConfidence: map[string]int64{}}
	for _, e := range s.entries {
		stats.TotalItems++
		stats.ByConfidence[e.ConfidenceLevel]++
	}
	return stats, nil
}

func (s *memKnowledgeStore) AddItem(_ context.Context, entry *models.KnowledgeBaseEntry) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.PendingApprovalID != nil {
		if err := s.addErr[*entry.PendingApprovalID]; err != nil {
			return uuid.Nil, err
		}
		for _, e := range s.entries {
			if e.PendingApprovalID != nil && *e.PendingApprovalID == *entry.PendingApprovalID {
				return uuid.Nil, models.ErrAlreadyCommitted
			}
		}
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

type memApprovalStore struct {
	mu        sync.Mutex
	nextID    int64
	records   map[int64]*models.PendingApproval
	audit     []*models.ApprovalAudit
	createErr error
	updateErr error
}

func newMemApprovalStore() *memApprovalStore {
	return &memApprovalStore{records: map[int64]*models.PendingApproval{}}
}

// seed inserts a raw payload, bypassing Enqueue.
func (s *memApprovalStore) seed(workflowID, payload string) int64 {
	ids, _ := s.CreatePending(context.Background(), workflowID, []string{payload})
	return ids[0]
}

func (s *memApprovalStore) CreatePending(_ context.Context, workflowID string, payloads []string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	ids := make([]int64, 0, len(payloads))
	for _, p := range payloads {
		s.nextID++
		s.records[s.nextID] = &models.PendingApproval{
			ID:         s.nextID,
			WorkflowID: workflowID,
			ItemData:   p,
			Status:     models.StatusPending,
			CreatedAt:  time.Now(),
		}
		ids = append(ids, s.nextID)
	}
	return ids, nil
}

func (s *memApprovalStore) GetPendingItems(ctx context.Context, workflowID string) ([]*models.PendingApproval, error) {
	return s.GetItemsByStatus(ctx, workflowID, models.StatusPending)
}

func (s *memApprovalStore) GetItemsByStatus(_ context.Context, workflowID string, status models.ApprovalStatus) ([]*models.PendingApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PendingApproval
	for _, r := range s.records {
		if r.Status != status || (workflowID != "" && r.WorkflowID != workflowID) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memApprovalStore) UpdateApprovalStatus(_ context.Context, workflowID string, ids []int64, status models.ApprovalStatus, actor, reason string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	var moved int64
	for _, id := range ids {
		r, ok := s.records[id]
		if !ok || r.WorkflowID != workflowID || r.Status != models.StatusPending {
			continue
		}
		now := time.Now()
		r.Status = status
		r.ReviewedBy = &actor
		r.ReviewReason = &reason
		r.ReviewedAt = &now
		s.audit = append(s.audit, &models.ApprovalAudit{
			ID:                int64(len(s.audit) + 1),
			PendingApprovalID: id,
			WorkflowID:        workflowID,
			FromStatus:        models.StatusPending,
			ToStatus:          status,
			Actor:             actor,
			Reason:            reason,
			CreatedAt:         now,
		})
		moved++
	}
	return moved, nil
}

func (s *memApprovalStore) ListAudit(_ context.Context, workflowID string) ([]*models.ApprovalAudit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ApprovalAudit
	for _, a := range s.audit {
		if a.WorkflowID == workflowID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memApprovalStore) status(id int64) models.ApprovalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id].Status
}

type memDocumentStore struct {
	mu        sync.Mutex
	docs      []*models.Document
	createErr error
}

func (s *memDocumentStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memDocumentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memDocumentStore) ListByUploader(_ context.Context, userID uuid.UUID, limit, offset int) ([]*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Document
	for _, d := range s.docs {
		if d.UploadedBy != nil && *d.UploadedBy == userID {
			out = append(out, d)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

type memObjectStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{data: map[string][]byte{}}
}

func (s *memObjectStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *memObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return d, nil
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}
