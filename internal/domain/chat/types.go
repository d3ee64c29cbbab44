package chat

import (
	"context"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is the root entity grouping an ordered sequence of messages
// and a set of uploaded files.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single immutable turn entry. Messages of one conversation
// form a strictly creation-ordered sequence.
type Message struct {
	ID             uint      `json:"-"`
	PublicID       string    `json:"id"`
	ConversationID uint      `json:"-"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// File is an ingested document belonging to exactly one conversation.
// ExtractedText is nil when extraction failed or produced nothing.
type File struct {
	ID             uint      `json:"-"`
	PublicID       string    `json:"id"`
	ConversationID uint      `json:"-"`
	OriginalName   string    `json:"original_name"`
	StoragePath    string    `json:"-"`
	MimeType       string    `json:"mime_type"`
	Size           int64     `json:"size"`
	ExtractedText  *string   `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Text returns the extracted text, or the empty string when extraction
// failed or produced nothing.
func (f *File) Text() string {
	if f.ExtractedText == nil {
		return ""
	}
	return *f.ExtractedText
}

// Store owns conversation, message and file persistence. Implementations
// guarantee that message retrieval order matches creation order.
type Store interface {
	CreateConversation(ctx context.Context, title string) (*Conversation, error)
	GetConversation(ctx context.Context, publicID string) (*Conversation, error)
	ListConversations(ctx context.Context) ([]*Conversation, error)

	// AppendMessage always appends; prior messages are never edited or removed.
	AppendMessage(ctx context.Context, conversationID uint, role Role, content string) (*Message, error)

	// RecentMessages returns the last limit messages by creation order, in
	// ascending (chronological) order.
	RecentMessages(ctx context.Context, conversationID uint, limit int) ([]*Message, error)
	MessagesByConversation(ctx context.Context, conversationID uint) ([]*Message, error)

	CreateFile(ctx context.Context, file *File) error

	// LinkFile is idempotent; a duplicate association attempt leaves exactly
	// one row in place.
	LinkFile(ctx context.Context, messageID, fileID uint) error

	// FilesByPublicIDs returns whichever of the requested ids exist,
	// silently omitting unknown ids.
	FilesByPublicIDs(ctx context.Context, publicIDs []string) ([]*File, error)
	FilesByConversation(ctx context.Context, conversationID uint) ([]*File, error)
}

// Completer is the opaque completion function provided by the model backend.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string, maxTokens int, temperature float32) (string, error)
}
