package handlers

import (
	"github.com/rs/zerolog"

	"fee-server/internal/config"
	"fee-server/internal/domain/chat"
	"fee-server/internal/domain/ingest"
)

// Provider wires HTTP handlers.
type Provider struct {
	Chat         *ChatHandler
	Upload       *UploadHandler
	Conversation *ConversationHandler
}

func NewProvider(cfg *config.Config, chatService *chat.Service, ingestService *ingest.Service, store chat.Store, log zerolog.Logger) *Provider {
	return &Provider{
		Chat:         NewChatHandler(chatService, log),
		Upload:       NewUploadHandler(cfg, ingestService, log),
		Conversation: NewConversationHandler(store, log),
	}
}
