package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"material-kb/internal/dto"
	"material-kb/internal/models"
	"material-kb/internal/service"
	"material-kb/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type decision struct {
	workflowID string
	ids        []int64
	status     models.ApprovalStatus
	actor      string
	reason     string
}

type stubApprovalStore struct {
	pending   []*models.PendingApproval
	decisions []decision
}

func (s *stubApprovalStore) CreatePending(context.Context, string, []string) ([]int64, error) {
	return nil, nil
}

func (s *stubApprovalStore) GetPendingItems(_ context.Context, workflowID string) ([]*models.PendingApproval, error) {
	var out []*models.PendingApproval
	for _, p := range s.pending {
		if workflowID == "" || p.WorkflowID == workflowID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubApprovalStore) GetItemsByStatus(_ context.Context, workflowID string, status models.ApprovalStatus) ([]*models.PendingApproval, error) {
	var out []*models.PendingApproval
	for _, p := range s.pending {
		if p.Status == status && (workflowID == "" || p.WorkflowID == workflowID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubApprovalStore) UpdateApprovalStatus(_ context.Context, workflowID string, ids []int64, status models.ApprovalStatus, actor, reason string) (int64, error) {
	s.decisions = append(s.decisions, decision{workflowID, ids, status, actor, reason})
	return int64(len(ids)), nil
}

func (s *stubApprovalStore) ListAudit(context.Context, string) ([]*models.ApprovalAudit, error) {
	return nil, nil
}

type stubKnowledgeStore struct {
	added []*models.KnowledgeBaseEntry
}

func (s *stubKnowledgeStore) SearchItems(context.Context, string, int) ([]*models.KnowledgeBaseEntry, error) {
	return s.added, nil
}

func (s *stubKnowledgeStore) GetStats(context.Context) (*models.KnowledgeStats, error) {
	return &models.KnowledgeStats{TotalItems: int64(len(s.added)), ByConfidence: map[string]int64{}}, nil
}

func (s *stubKnowledgeStore) AddItem(_ context.Context, entry *models.KnowledgeBaseEntry) (uuid.UUID, error) {
	s.added = append(s.added, entry)
	return uuid.New(), nil
}

func newApprovalApp(t *testing.T, approvals *stubApprovalStore, knowledge *stubKnowledgeStore, username string) *fiber.App {
	t.Helper()
	log := zaptest.NewLogger(t)
	svc := service.NewApprovalService(approvals, knowledge, log)
	h := NewApprovalHandler(svc, log)
	k := NewKnowledgeHandler(svc, log)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUsername, username)
		return c.Next()
	})
	app.Get("/approvals", h.ListPending)
	app.Post("/approvals/:workflow_id/approve", h.Approve)
	app.Post("/approvals/:workflow_id/reject", h.Reject)
	app.Post("/approvals/:workflow_id/recommit", h.Recommit)
	app.Get("/knowledge", k.Search)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestApprove_RecordsReviewerAsActor(t *testing.T) {
	approvals := &stubApprovalStore{pending: []*models.PendingApproval{
		{ID: 1, WorkflowID: "wf1", ItemData: `{"part_number":"P-1"}`, Status: models.StatusPending},
		{ID: 2, WorkflowID: "wf1", ItemData: `{"part_number":"P-2"}`, Status: models.StatusPending},
	}}
	knowledge := &stubKnowledgeStore{}
	app := newApprovalApp(t, approvals, knowledge, "alice")

	status, body := postJSON(t, app, "/approvals/wf1/approve", `{"item_ids":[1,2],"reason":"looks right"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "wf1", body["workflow_id"])
	assert.EqualValues(t, 2, body["approved_count"])
	require.Len(t, knowledge.added, 2)
	assert.Equal(t, "alice", knowledge.added[0].ApprovedBy)
	require.Len(t, approvals.decisions, 1)
	assert.Equal(t, decision{"wf1", []int64{1, 2}, models.StatusApproved, "alice", "looks right"}, approvals.decisions[0])
}

func TestReject_ReturnsRequestedCount(t *testing.T) {
	approvals := &stubApprovalStore{}
	app := newApprovalApp(t, approvals, &stubKnowledgeStore{}, "")

	status, body := postJSON(t, app, "/approvals/wf1/reject", `{"item_ids":[3]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["rejected_count"])
	require.Len(t, approvals.decisions, 1)
	assert.Equal(t, service.SystemActor, approvals.decisions[0].actor)
	assert.Equal(t, service.DefaultRejectReason, approvals.decisions[0].reason)
}

func TestRecommit_CommitsApprovedItems(t *testing.T) {
	reviewer := "alice"
	approvals := &stubApprovalStore{pending: []*models.PendingApproval{
		{ID: 1, WorkflowID: "wf1", ItemData: `{"part_number":"P-1"}`, Status: models.StatusApproved, ReviewedBy: &reviewer},
		{ID: 2, WorkflowID: "wf1", ItemData: `{"part_number":"P-2"}`, Status: models.StatusPending},
	}}
	knowledge := &stubKnowledgeStore{}
	app := newApprovalApp(t, approvals, knowledge, "bob")

	status, body := postJSON(t, app, "/approvals/wf1/recommit", `{"item_ids":[1,2]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, body["approved_count"])
	require.Len(t, knowledge.added, 1)
	assert.Equal(t, "P-1", knowledge.added[0].PartNumber)
	assert.Equal(t, "alice", knowledge.added[0].ApprovedBy)
	assert.Empty(t, approvals.decisions)
}

func TestDecision_BadRequests(t *testing.T) {
	app := newApprovalApp(t, &stubApprovalStore{}, &stubKnowledgeStore{}, "alice")

	for name, body := range map[string]string{
		"malformed": `{"item_ids":`,
		"no ids":    `{"item_ids":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			status, decoded := postJSON(t, app, "/approvals/wf1/approve", body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, decoded["error"])
		})
	}
}

func TestListPending_ReturnsParsedData(t *testing.T) {
	approvals := &stubApprovalStore{pending: []*models.PendingApproval{
		{ID: 1, WorkflowID: "wf1", ItemData: `{"part_number":"P-1"}`, Status: models.StatusPending},
		{ID: 2, WorkflowID: "wf2", ItemData: `{"part_number":"P-2"}`, Status: models.StatusPending},
	}}
	app := newApprovalApp(t, approvals, &stubKnowledgeStore{}, "alice")

	resp, err := app.Test(httptest.NewRequest("GET", "/approvals?workflow_id=wf2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var records []dto.PendingApprovalResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "P-2", records[0].ParsedData["part_number"])
}

func TestKnowledgeSearch(t *testing.T) {
	knowledge := &stubKnowledgeStore{added: []*models.KnowledgeBaseEntry{
		{PartNumber: "P-1", SupplierInfo: `{"vendor_name":"Acme"}`},
	}}
	app := newApprovalApp(t, &stubApprovalStore{}, knowledge, "alice")

	resp, err := app.Test(httptest.NewRequest("GET", "/knowledge?q=P-1", nil))
	require.NoError(t, err)

	var entries []dto.KnowledgeEntryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "P-1", entries[0].PartNumber)
	assert.Equal(t, map[string]any{"vendor_name": "Acme"}, entries[0].SupplierInfo)
}
