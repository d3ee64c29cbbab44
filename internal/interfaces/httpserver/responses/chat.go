package responses

import (
	"time"

	"fee-server/internal/domain/chat"
	"fee-server/internal/domain/ingest"
)

// ChatResponse is the result of one completed chat turn.
type ChatResponse struct {
	ConversationID string   `json:"conversation_id"`
	Reply          string   `json:"reply"`
	MessageID      string   `json:"message_id"`
	Warnings       []string `json:"warnings,omitempty"`
}

// BuildChatResponse creates a response from the turn result.
func BuildChatResponse(result *chat.TurnResult) *ChatResponse {
	return &ChatResponse{
		ConversationID: result.ConversationID,
		Reply:          result.Reply,
		MessageID:      result.MessageID,
		Warnings:       result.Warnings,
	}
}

// UploadResponse is the result of a file ingestion call.
type UploadResponse struct {
	ConversationID string                `json:"conversation_id"`
	Files          []ingest.IngestedFile `json:"files"`
}

// BuildUploadResponse creates a response from the ingest result.
func BuildUploadResponse(result *ingest.Result) *UploadResponse {
	return &UploadResponse{
		ConversationID: result.ConversationID,
		Files:          result.Files,
	}
}

// ConversationSummary is one entry in the conversation list.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageView is one message in a conversation detail response.
type MessageView struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FileView is one file in a conversation detail response.
type FileView struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConversationDetail is the full conversation view with ordered messages.
type ConversationDetail struct {
	ConversationSummary
	Messages []MessageView `json:"messages"`
	Files    []FileView    `json:"files"`
}

// BuildConversationSummary maps a domain conversation.
func BuildConversationSummary(conv *chat.Conversation) ConversationSummary {
	return ConversationSummary{
		ID:        conv.PublicID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// BuildConversationDetail maps a conversation with its messages and files.
func BuildConversationDetail(conv *chat.Conversation, messages []*chat.Message, files []*chat.File) *ConversationDetail {
	detail := &ConversationDetail{
		ConversationSummary: BuildConversationSummary(conv),
		Messages:            make([]MessageView, 0, len(messages)),
		Files:               make([]FileView, 0, len(files)),
	}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, MessageView{
			ID:        m.PublicID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, f := range files {
		detail.Files = append(detail.Files, FileView{
			ID:           f.PublicID,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			CreatedAt:    f.CreatedAt,
		})
	}
	return detail
}
