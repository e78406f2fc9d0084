package handlers

import (
	"errors"
	"io"

	"material-kb/internal/models"
	"material-kb/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// UploadDocument godoc
// @Summary Ingest a supplier document
// @Description Upload a PDF, DOCX, TXT or CSV item list. Items are extracted, normalized, matched against the knowledge base and queued for approval under a new workflow id.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Supplier document (pdf, docx, txt, csv)"
// @Security Bearer
// @Success 201 {object} dto.IngestResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 415 {object} map[string]string
// @Router /api/v1/documents/upload [post]
func (h *DocumentHandler) UploadDocument(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	resp, err := h.docService.Ingest(c.UserContext(), service.IngestRequest{
		UploadedBy: &userID,
		FileName:   file.Filename,
		Content:    content,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to ingest document", zap.String("file", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to ingest document",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListDocuments godoc
// @Summary List uploaded documents
// @Description Get the documents uploaded by the current reviewer
// @Tags documents
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.DocumentResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/documents [get]
func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := h.docService.ListDocuments(c.UserContext(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list documents",
		})
	}

	return c.JSON(docs)
}

// DocumentContent godoc
// @Summary Download a stored document
// @Description Return the original bytes of an ingested document
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Security Bearer
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/documents/{id}/content [get]
func (h *DocumentHandler) DocumentContent(c *fiber.Ctx) error {
	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	doc, data, err := h.docService.DocumentContent(c.UserContext(), documentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		h.logger.Error("Failed to load document", zap.String("document_id", documentID.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load document",
		})
	}

	c.Set(fiber.HeaderContentType, service.ContentType(doc.Format))
	c.Attachment(doc.FileName)
	return c.Send(data)
}
