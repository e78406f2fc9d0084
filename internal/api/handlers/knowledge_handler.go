package handlers

import (
	"material-kb/internal/dto"
	"material-kb/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KnowledgeHandler struct {
	approvalService *service.ApprovalService
	logger          *zap.Logger
}

func NewKnowledgeHandler(approvalService *service.ApprovalService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		approvalService: approvalService,
		logger:          logger,
	}
}

// Search godoc
// @Summary Search the knowledge base
// @Description Case-insensitive substring search over part number, material name and description
// @Tags knowledge
// @Produce json
// @Param q query string false "Search text"
// @Param limit query int false "Limit" default(50)
// @Security Bearer
// @Success 200 {array} dto.KnowledgeEntryResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/knowledge [get]
func (h *KnowledgeHandler) Search(c *fiber.Ctx) error {
	entries, err := h.approvalService.SearchKnowledge(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		h.logger.Error("Knowledge search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Knowledge search failed",
		})
	}

	resp := make([]*dto.KnowledgeEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, service.ToKnowledgeEntryResponse(e))
	}
	return c.JSON(resp)
}

// Stats godoc
// @Summary Knowledge base statistics
// @Description Entry counts by confidence and approval queue counts by status
// @Tags knowledge
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.KnowledgeStatsResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/knowledge/stats [get]
func (h *KnowledgeHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.approvalService.Stats(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to load knowledge stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load knowledge stats",
		})
	}
	return c.JSON(service.ToStatsResponse(stats))
}
