//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fee-server/internal/config"
	"fee-server/internal/domain/chat"
	"fee-server/internal/domain/ingest"
	"fee-server/internal/infrastructure/completion"
	"fee-server/internal/infrastructure/database"
	"fee-server/internal/infrastructure/extractor"
	"fee-server/internal/infrastructure/logger"
	"fee-server/internal/infrastructure/repository/chatstore"
	"fee-server/internal/infrastructure/storage"
	"fee-server/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	chatstore.NewRepository,
	wire.Bind(new(chat.Store), new(*chatstore.Repository)),
	completion.NewClient,
	wire.Bind(new(chat.Completer), new(*completion.Client)),
	chat.NewService,
)

var ingestSet = wire.NewSet(
	storage.NewLocalStorage,
	wire.Bind(new(ingest.BlobStore), new(*storage.LocalStorage)),
	extractor.NewPDFExtractor,
	wire.Bind(new(ingest.Extractor), new(*extractor.PDFExtractor)),
	ingest.NewService,
)

// BuildApplication assembles the Fee server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		chatSet,
		ingestSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}
