// Package app wires configuration, storage and services into the pipeline
// shared by the HTTP server and the kbctl command line.
package app

import (
	"context"
	"fmt"

	"material-kb/internal/models"
	"material-kb/internal/parser"
	"material-kb/internal/repository"
	"material-kb/internal/service"
	"material-kb/pkg/auth"
	"material-kb/pkg/config"
	"material-kb/pkg/postgres"
	"material-kb/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type App struct {
	DB         *pgxpool.Pool
	JWTManager *auth.JWTManager

	Auth      *service.AuthService
	Documents *service.DocumentService
	Approvals *service.ApprovalService

	translation *service.TranslationService
	logger      *zap.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	aliases, err := models.LoadAliasTable(cfg.Ingest.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load column aliases: %w", err)
	}

	db, err := postgres.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	objects, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{DB: db, logger: logger}

	var translator service.Translator = service.NoopTranslator{}
	if cfg.Translation.Enabled {
		a.translation, err = service.NewTranslationService(&cfg.GigaChat, &cfg.Translation, logger.Named("translation"))
		if err != nil {
			db.Close()
			return nil, err
		}
		translator = a.translation
	}

	userRepo := repository.NewUserRepository(db, logger)
	docRepo := repository.NewDocumentRepository(db, logger)
	knowledgeRepo := repository.NewKnowledgeRepository(db, logger)
	approvalRepo := repository.NewApprovalRepository(db, logger)

	normalizer, err := service.NewItemNormalizer(aliases, logger.Named("normalizer"))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.JWTManager = auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	a.Auth = service.NewAuthService(userRepo, a.JWTManager, logger.Named("auth"))
	a.Approvals = service.NewApprovalService(approvalRepo, knowledgeRepo, logger.Named("approval"))
	a.Documents = service.NewDocumentService(
		docRepo,
		objects,
		service.NewExtractionService(parser.Registry(), logger.Named("extractor")),
		translator,
		normalizer,
		service.NewMatchService(knowledgeRepo, cfg.Ingest.SearchLimit, logger.Named("matcher")),
		a.Approvals,
		logger.Named("ingest"),
	)

	return a, nil
}

func (a *App) Close() {
	if a.translation != nil {
		if err := a.translation.Close(); err != nil {
			a.logger.Warn("Failed to close translation client", zap.Error(err))
		}
	}
	a.DB.Close()
}
