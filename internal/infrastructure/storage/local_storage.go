package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"fee-server/internal/config"
)

// LocalStorage writes uploaded documents to the local filesystem.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
}

// NewLocalStorage creates a local filesystem blob store rooted at the
// configured upload path.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	if err := os.MkdirAll(cfg.UploadStoragePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload storage directory: %w", err)
	}

	logger.Info().Str("path", cfg.UploadStoragePath).Msg("local storage initialized")

	return &LocalStorage{
		basePath: cfg.UploadStoragePath,
		log:      logger,
	}, nil
}

// Store writes data under key and returns the relative storage path.
func (l *LocalStorage) Store(ctx context.Context, key string, data []byte) (string, error) {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	l.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("file stored")
	return key, nil
}

// Read returns the bytes stored under key.
func (l *LocalStorage) Read(ctx context.Context, key string) ([]byte, error) {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
