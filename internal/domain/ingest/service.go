package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"fee-server/internal/domain/chat"
	"fee-server/internal/utils/idgen"
	"fee-server/internal/utils/platformerrors"
)

// MaxExtractedChars is the hard cap on stored extracted text. Longer
// extractions are truncated, not rejected.
const MaxExtractedChars = 50000

// BlobStore writes raw file bytes and returns the relative storage path.
type BlobStore interface {
	Store(ctx context.Context, key string, data []byte) (string, error)
}

// Extractor derives plain text from a document's binary content.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// FilePayload is one uploaded file.
type FilePayload struct {
	Data         []byte
	OriginalName string
	MimeType     string
}

// IngestedFile is the caller-facing file record. Storage path and extracted
// text stay internal; they are read back only through the context assembler.
type IngestedFile struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// Result is the outcome of one ingestion call.
type Result struct {
	ConversationID string
	Files          []IngestedFile
}

// Service ingests uploaded documents: it stores the bytes, attempts text
// extraction and records a File row per upload.
type Service struct {
	store     chat.Store
	blobs     BlobStore
	extractor Extractor
	log       zerolog.Logger
}

func NewService(store chat.Store, blobs BlobStore, extractor Extractor, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		blobs:     blobs,
		extractor: extractor,
		log:       log.With().Str("component", "ingest-service").Logger(),
	}
}

// Ingest processes the uploaded payloads. When conversationID is empty a new
// conversation is created, titled after the first filename without its
// extension. Extraction failure is non-fatal; storage failure is.
func (s *Service) Ingest(ctx context.Context, conversationID string, payloads []FilePayload) (*Result, error) {
	if len(payloads) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "no files provided", nil, "4b7e2c9a-1f5d-4e8b-a3c6-7d0e9f2a5b8c")
	}

	conv, err := s.resolveConversation(ctx, conversationID, payloads[0].OriginalName)
	if err != nil {
		return nil, err
	}

	result := &Result{ConversationID: conv.PublicID}
	for _, payload := range payloads {
		file, err := s.ingestOne(ctx, conv.ID, payload)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, IngestedFile{
			ID:           file.PublicID,
			OriginalName: file.OriginalName,
			Size:         file.Size,
		})
	}
	return result, nil
}

func (s *Service) resolveConversation(ctx context.Context, conversationID, firstName string) (*chat.Conversation, error) {
	if conversationID == "" {
		title := strings.TrimSuffix(firstName, filepath.Ext(firstName))
		conv, err := s.store.CreateConversation(ctx, title)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
		}
		return conv, nil
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation")
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "8c1d5f3b-6a9e-4c2d-b7f0-3e6a9c2d5f8b")
	}
	return conv, nil
}

func (s *Service) ingestOne(ctx context.Context, conversationID uint, payload FilePayload) (*chat.File, error) {
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), filepath.Base(payload.OriginalName))

	path, err := s.blobs.Store(ctx, key, payload.Data)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store file")
	}

	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = mimetype.Detect(payload.Data).String()
	}

	file := &chat.File{
		PublicID:       idgen.NewFileID(),
		ConversationID: conversationID,
		OriginalName:   payload.OriginalName,
		StoragePath:    path,
		MimeType:       mimeType,
		Size:           int64(len(payload.Data)),
		ExtractedText:  s.extractText(ctx, payload),
	}

	if err := s.store.CreateFile(ctx, file); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to record file")
	}
	return file, nil
}

// extractText runs best-effort extraction. Failures log a warning and leave
// the text nil; the ingestion still succeeds.
func (s *Service) extractText(ctx context.Context, payload FilePayload) *string {
	text, err := s.extractor.Extract(ctx, payload.Data)
	if err != nil {
		s.log.Warn().Err(err).Str("file", payload.OriginalName).Msg("text extraction failed")
		return nil
	}
	if text == "" {
		return nil
	}
	text = truncateChars(text, MaxExtractedChars)
	return &text
}

func truncateChars(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
