package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fee-server/internal/domain/chat"
	"fee-server/internal/interfaces/httpserver/responses"
)

// ConversationHandler exposes read-only conversation endpoints.
type ConversationHandler struct {
	store chat.Store
	log   zerolog.Logger
}

func NewConversationHandler(store chat.Store, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		store: store,
		log:   log.With().Str("component", "conversation-handler").Logger(),
	}
}

// List returns all conversations, newest first.
func (h *ConversationHandler) List(c *gin.Context) {
	conversations, err := h.store.ListConversations(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	list := make([]responses.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		list = append(list, responses.BuildConversationSummary(conv))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// Get returns one conversation with its ordered messages and files.
func (h *ConversationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	conv, err := h.store.GetConversation(ctx, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load conversation")
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{Error: "conversation not found"})
		return
	}

	messages, err := h.store.MessagesByConversation(ctx, conv.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to load messages")
		return
	}
	files, err := h.store.FilesByConversation(ctx, conv.ID)
	if err != nil {
		responses.HandleError(c, err, "failed to load files")
		return
	}

	c.JSON(http.StatusOK, responses.BuildConversationDetail(conv, messages, files))
}
