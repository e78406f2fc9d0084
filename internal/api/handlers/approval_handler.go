package handlers

import (
	"errors"

	"material-kb/internal/dto"
	"material-kb/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ApprovalHandler struct {
	approvalService *service.ApprovalService
	logger          *zap.Logger
}

func NewApprovalHandler(approvalService *service.ApprovalService, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		logger:          logger,
	}
}

// ListPending godoc
// @Summary List pending approvals
// @Description List items awaiting review, optionally for one workflow
// @Tags approvals
// @Produce json
// @Param workflow_id query string false "Workflow ID"
// @Security Bearer
// @Success 200 {array} dto.PendingApprovalResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/approvals [get]
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	records, err := h.approvalService.ListPending(c.UserContext(), c.Query("workflow_id"))
	if err != nil {
		h.logger.Error("Failed to list pending approvals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pending approvals",
		})
	}

	resp := make([]dto.PendingApprovalResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, service.ToPendingApprovalResponse(r))
	}
	return c.JSON(resp)
}

// Approve godoc
// @Summary Approve pending items
// @Description Commit the given pending items of a workflow to the knowledge base
// @Tags approvals
// @Accept json
// @Produce json
// @Param workflow_id path string true "Workflow ID"
// @Param request body dto.ApprovalDecisionRequest true "Items to approve"
// @Security Bearer
// @Success 200 {object} dto.ApproveResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/approvals/{workflow_id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	req, ok := h.parseDecision(c)
	if !ok {
		return nil
	}

	result, err := h.approvalService.Approve(c.UserContext(), req)
	if err != nil {
		return h.decisionError(c, "approve", err)
	}

	return c.JSON(service.ToApproveResponse(req.WorkflowID, result))
}

// Recommit godoc
// @Summary Retry knowledge base commits
// @Description Commit approved items of a workflow whose earlier commit failed; committed items are skipped
// @Tags approvals
// @Accept json
// @Produce json
// @Param workflow_id path string true "Workflow ID"
// @Param request body dto.ApprovalDecisionRequest true "Approved items to commit"
// @Security Bearer
// @Success 200 {object} dto.ApproveResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/approvals/{workflow_id}/recommit [post]
func (h *ApprovalHandler) Recommit(c *fiber.Ctx) error {
	req, ok := h.parseDecision(c)
	if !ok {
		return nil
	}

	result, err := h.approvalService.Recommit(c.UserContext(), req)
	if err != nil {
		return h.decisionError(c, "recommit", err)
	}

	return c.JSON(service.ToApproveResponse(req.WorkflowID, result))
}

// Reject godoc
// @Summary Reject pending items
// @Description Mark the given pending items of a workflow rejected
// @Tags approvals
// @Accept json
// @Produce json
// @Param workflow_id path string true "Workflow ID"
// @Param request body dto.ApprovalDecisionRequest true "Items to reject"
// @Security Bearer
// @Success 200 {object} dto.RejectResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/approvals/{workflow_id}/reject [post]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	req, ok := h.parseDecision(c)
	if !ok {
		return nil
	}

	result, err := h.approvalService.Reject(c.UserContext(), req)
	if err != nil {
		return h.decisionError(c, "reject", err)
	}

	return c.JSON(dto.RejectResponse{
		WorkflowID:    req.WorkflowID,
		RejectedCount: result.Rejected,
		Affected:      result.Affected,
	})
}

// AuditTrail godoc
// @Summary Approval audit trail
// @Description List every status transition of a workflow
// @Tags approvals
// @Produce json
// @Param workflow_id path string true "Workflow ID"
// @Security Bearer
// @Success 200 {array} dto.AuditEntryResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/approvals/{workflow_id}/audit [get]
func (h *ApprovalHandler) AuditTrail(c *fiber.Ctx) error {
	entries, err := h.approvalService.AuditTrail(c.UserContext(), c.Params("workflow_id"))
	if err != nil {
		return h.decisionError(c, "load audit trail", err)
	}
	return c.JSON(service.ToAuditResponses(entries))
}

func (h *ApprovalHandler) parseDecision(c *fiber.Ctx) (service.ApprovalRequest, bool) {
	var body dto.ApprovalDecisionRequest
	if err := c.BodyParser(&body); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
		return service.ApprovalRequest{}, false
	}
	if len(body.ItemIDs) == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "item_ids is required",
		})
		return service.ApprovalRequest{}, false
	}

	return service.ApprovalRequest{
		WorkflowID: c.Params("workflow_id"),
		ItemIDs:    body.ItemIDs,
		Actor:      getActor(c),
		Reason:     body.Reason,
	}, true
}

func (h *ApprovalHandler) decisionError(c *fiber.Ctx, action string, err error) error {
	if errors.Is(err, service.ErrInvalidRequest) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	h.logger.Error("Failed to "+action, zap.String("workflow_id", c.Params("workflow_id")), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + action,
	})
}
