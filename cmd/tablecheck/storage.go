package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/tablecheck/pkg/file"
)

// newStorage builds the artifact store selected by TABLECHECK_STORAGE. It
// returns nil for "none".
func newStorage(ctx context.Context, cfg Config) (file.Storage, error) {
	switch strings.ToLower(cfg.Storage) {
	case "", storageNone:
		return nil, nil
	case storageLocal:
		store, err := file.NewLocalStorage(cfg.StorageDir, cfg.StorageURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case storageS3:
		store, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("%w: unknown storage backend %q", file.ErrInvalidConfig, cfg.Storage)
}
