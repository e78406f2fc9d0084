package api

import (
	"material-kb/docs"
	"material-kb/internal/api/handlers"
	"material-kb/pkg/auth"
	"material-kb/pkg/config"
	"material-kb/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Documents *handlers.DocumentHandler
	Approvals *handlers.ApprovalHandler
	Knowledge *handlers.KnowledgeHandler
}

func SetupRouter(
	cfg *config.ServerConfig,
	h Handlers,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	documents := protected.Group("/documents")
	documents.Post("/upload", h.Documents.UploadDocument)
	documents.Get("", h.Documents.ListDocuments)
	documents.Get("/:id/content", h.Documents.DocumentContent)

	approvals := protected.Group("/approvals")
	approvals.Get("", h.Approvals.ListPending)
	approvals.Post("/:workflow_id/approve", h.Approvals.Approve)
	approvals.Post("/:workflow_id/reject", h.Approvals.Reject)
	approvals.Post("/:workflow_id/recommit", h.Approvals.Recommit)
	approvals.Get("/:workflow_id/audit", h.Approvals.AuditTrail)

	knowledge := protected.Group("/knowledge")
	knowledge.Get("", h.Knowledge.Search)
	knowledge.Get("/stats", h.Knowledge.Stats)

	return app
}
