// Package storage keeps the raw bytes of uploaded supplier documents.
package storage

import (
	"context"
	"fmt"

	"material-kb/pkg/config"

	"go.uber.org/zap"
)

// Store saves and loads document bytes by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// New builds the Store selected by cfg.Backend.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		store, err := NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local document storage", zap.String("dir", cfg.UploadDir))
		return store, nil
	case "minio":
		store, err := NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Using MinIO document storage",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("bucket", cfg.Bucket),
		)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
