package chatstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fee-server/internal/domain/chat"
	"fee-server/internal/infrastructure/database/entities"
	"fee-server/internal/utils/idgen"
	"fee-server/internal/utils/platformerrors"
)

// Repository is the gorm-backed implementation of chat.Store.
type Repository struct {
	db *gorm.DB
}

var _ chat.Store = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateConversation implements chat.Store.
func (r *Repository) CreateConversation(ctx context.Context, title string) (*chat.Conversation, error) {
	entity := entities.Conversation{
		PublicID: idgen.NewConversationID(),
		Title:    title,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create conversation", err, "2f4a6c8e-0b1d-4357-9e8f-a1b2c3d4e5f6")
	}
	conv := mapConversation(entity)
	return &conv, nil
}

// GetConversation implements chat.Store. Returns nil without error when the
// conversation does not exist.
func (r *Repository) GetConversation(ctx context.Context, publicID string) (*chat.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find conversation", err, "7d9b1f3a-5c6e-4082-8a9b-c0d1e2f3a4b5")
	}
	conv := mapConversation(entity)
	return &conv, nil
}

// ListConversations implements chat.Store. Newest first.
func (r *Repository) ListConversations(ctx context.Context) ([]*chat.Conversation, error) {
	var rows []entities.Conversation
	err := r.db.WithContext(ctx).Order("updated_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list conversations", err, "9e2c4a6b-8d0f-4163-b5c7-d8e9f0a1b2c3")
	}
	list := make([]*chat.Conversation, 0, len(rows))
	for _, row := range rows {
		conv := mapConversation(row)
		list = append(list, &conv)
	}
	return list, nil
}

// AppendMessage implements chat.Store. Always appends.
func (r *Repository) AppendMessage(ctx context.Context, conversationID uint, role chat.Role, content string) (*chat.Message, error) {
	entity := entities.Message{
		PublicID:       idgen.NewMessageID(),
		ConversationID: conversationID,
		Role:           string(role),
		Content:        content,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to append message", err, "1a3c5e7f-9b0d-4246-8c1e-f2a3b4c5d6e7")
	}
	msg := mapMessage(entity)
	return &msg, nil
}

// RecentMessages implements chat.Store: fetch the last limit messages
// descending by creation order, then reverse into chronological order.
func (r *Repository) RecentMessages(ctx context.Context, conversationID uint, limit int) ([]*chat.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load recent messages", err, "6b8d0f2a-4c5e-4571-9d3f-a4b5c6d7e8f9")
	}

	list := make([]*chat.Message, len(rows))
	for i, row := range rows {
		msg := mapMessage(row)
		list[len(rows)-1-i] = &msg
	}
	return list, nil
}

// MessagesByConversation implements chat.Store. Full history, ascending.
func (r *Repository) MessagesByConversation(ctx context.Context, conversationID uint) ([]*chat.Message, error) {
	var rows []entities.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load messages", err, "3c5e7a9b-1d2f-4684-a5c6-b7d8e9f0a1b2")
	}
	list := make([]*chat.Message, 0, len(rows))
	for _, row := range rows {
		msg := mapMessage(row)
		list = append(list, &msg)
	}
	return list, nil
}

// CreateFile implements chat.Store.
func (r *Repository) CreateFile(ctx context.Context, file *chat.File) error {
	entity := entities.File{
		PublicID:       file.PublicID,
		ConversationID: file.ConversationID,
		OriginalName:   file.OriginalName,
		StoragePath:    file.StoragePath,
		MimeType:       file.MimeType,
		Size:           file.Size,
		ExtractedText:  file.ExtractedText,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create file", err, "8f0a2c4d-6e7b-4795-b1d3-c2e4f6a8b0d1")
	}
	file.ID = entity.ID
	file.CreatedAt = entity.CreatedAt
	return nil
}

// LinkFile implements chat.Store. A duplicate (message, file) pair is a
// no-op; exactly one association row remains.
func (r *Repository) LinkFile(ctx context.Context, messageID, fileID uint) error {
	entity := entities.MessageFile{
		MessageID: messageID,
		FileID:    fileID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to link file", err, "5d7f9b1c-3e4a-4808-c2e5-d6f8a0b2c4e6")
	}
	return nil
}

// FilesByPublicIDs implements chat.Store. Unknown ids are silently omitted.
func (r *Repository) FilesByPublicIDs(ctx context.Context, publicIDs []string) ([]*chat.File, error) {
	if len(publicIDs) == 0 {
		return nil, nil
	}
	var rows []entities.File
	err := r.db.WithContext(ctx).Where("public_id IN ?", publicIDs).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load files", err, "0b2d4f6a-8c9e-4913-d3f5-e7a9b1c3d5f7")
	}
	list := make([]*chat.File, 0, len(rows))
	for _, row := range rows {
		file := mapFile(row)
		list = append(list, &file)
	}
	return list, nil
}

// FilesByConversation implements chat.Store.
func (r *Repository) FilesByConversation(ctx context.Context, conversationID uint) ([]*chat.File, error) {
	var rows []entities.File
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load conversation files", err, "4e6a8c0d-2f3b-4a26-e5a7-f9b1c3d5e7a9")
	}
	list := make([]*chat.File, 0, len(rows))
	for _, row := range rows {
		file := mapFile(row)
		list = append(list, &file)
	}
	return list, nil
}

func mapConversation(entity entities.Conversation) chat.Conversation {
	return chat.Conversation{
		ID:        entity.ID,
		PublicID:  entity.PublicID,
		Title:     entity.Title,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func mapMessage(entity entities.Message) chat.Message {
	return chat.Message{
		ID:             entity.ID,
		PublicID:       entity.PublicID,
		ConversationID: entity.ConversationID,
		Role:           chat.Role(entity.Role),
		Content:        entity.Content,
		CreatedAt:      entity.CreatedAt,
	}
}

func mapFile(entity entities.File) chat.File {
	return chat.File{
		ID:             entity.ID,
		PublicID:       entity.PublicID,
		ConversationID: entity.ConversationID,
		OriginalName:   entity.OriginalName,
		StoragePath:    entity.StoragePath,
		MimeType:       entity.MimeType,
		Size:           entity.Size,
		ExtractedText:  entity.ExtractedText,
		CreatedAt:      entity.CreatedAt,
	}
}
