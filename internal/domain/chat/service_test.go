package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fee-server/internal/domain/chat"
	"fee-server/internal/utils/platformerrors"
)

// memoryStore is an in-memory chat.Store for service tests.
type memoryStore struct {
	nextID        uint
	conversations map[string]*chat.Conversation
	messages      []*chat.Message
	files         map[string]*chat.File
	links         map[string]int
	failLink      bool
	failAppend    bool
	failFiles     bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		conversations: make(map[string]*chat.Conversation),
		files:         make(map[string]*chat.File),
		links:         make(map[string]int),
	}
}

func (m *memoryStore) nextSeq() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) CreateConversation(ctx context.Context, title string) (*chat.Conversation, error) {
	id := m.nextSeq()
	conv := &chat.Conversation{
		ID:        id,
		PublicID:  fmt.Sprintf("conv_%d", id),
		Title:     title,
		CreatedAt: time.Now(),
	}
	m.conversations[conv.PublicID] = conv
	return conv, nil
}

func (m *memoryStore) GetConversation(ctx context.Context, publicID string) (*chat.Conversation, error) {
	return m.conversations[publicID], nil
}

func (m *memoryStore) ListConversations(ctx context.Context) ([]*chat.Conversation, error) {
	var list []*chat.Conversation
	for _, conv := range m.conversations {
		list = append(list, conv)
	}
	return list, nil
}

func (m *memoryStore) AppendMessage(ctx context.Context, conversationID uint, role chat.Role, content string) (*chat.Message, error) {
	if m.failAppend {
		return nil, errors.New("store unavailable")
	}
	id := m.nextSeq()
	msg := &chat.Message{
		ID:             id,
		PublicID:       fmt.Sprintf("msg_%d", id),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *memoryStore) RecentMessages(ctx context.Context, conversationID uint, limit int) ([]*chat.Message, error) {
	var all []*chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			all = append(all, msg)
		}
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (m *memoryStore) MessagesByConversation(ctx context.Context, conversationID uint) ([]*chat.Message, error) {
	return m.RecentMessages(ctx, conversationID, len(m.messages))
}

func (m *memoryStore) CreateFile(ctx context.Context, file *chat.File) error {
	file.ID = m.nextSeq()
	m.files[file.PublicID] = file
	return nil
}

func (m *memoryStore) LinkFile(ctx context.Context, messageID, fileID uint) error {
	if m.failLink {
		return errors.New("link failed")
	}
	m.links[fmt.Sprintf("%d:%d", messageID, fileID)]++
	return nil
}

func (m *memoryStore) FilesByPublicIDs(ctx context.Context, publicIDs []string) ([]*chat.File, error) {
	if m.failFiles {
		return nil, errors.New("store unreachable")
	}
	var list []*chat.File
	for _, id := range publicIDs {
		if f, ok := m.files[id]; ok {
			list = append(list, f)
		}
	}
	return list, nil
}

func (m *memoryStore) FilesByConversation(ctx context.Context, conversationID uint) ([]*chat.File, error) {
	var list []*chat.File
	for _, f := range m.files {
		if f.ConversationID == conversationID {
			list = append(list, f)
		}
	}
	return list, nil
}

func (m *memoryStore) messagesFor(conversationID uint) []*chat.Message {
	var list []*chat.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			list = append(list, msg)
		}
	}
	return list
}

// stubCompleter records the last prompt and returns a canned reply or error.
type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, prompt string, maxTokens int, temperature float32) (string, error) {
	s.lastSystem = systemPrompt
	s.lastPrompt = prompt
	return s.reply, s.err
}

func newTestService(store *memoryStore, completer *stubCompleter) *chat.Service {
	return chat.NewService(store, completer, zerolog.Nop())
}

func TestRunTurn_NewConversation(t *testing.T) {
	store := newMemoryStore()
	completer := &stubCompleter{reply: "Here is what the document says."}
	service := newTestService(store, completer)

	result, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: "Review this"})
	require.NoError(t, err)

	require.NotEmpty(t, result.ConversationID)
	require.Equal(t, "Here is what the document says.", result.Reply)
	require.NotEmpty(t, result.MessageID)
	require.Empty(t, result.Warnings)

	conv := store.conversations[result.ConversationID]
	require.NotNil(t, conv)
	require.Equal(t, "Review this", conv.Title)

	messages := store.messagesFor(conv.ID)
	require.Len(t, messages, 2)
	require.Equal(t, chat.RoleUser, messages[0].Role)
	require.Equal(t, "Review this", messages[0].Content)
	require.Equal(t, chat.RoleAssistant, messages[1].Role)
}

func TestRunTurn_TitleTruncatedToFiftyChars(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{reply: "ok"})

	long := strings.Repeat("x", 120)
	result, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: long})
	require.NoError(t, err)

	conv := store.conversations[result.ConversationID]
	require.Len(t, []rune(conv.Title), 50)
	require.True(t, strings.HasPrefix(long, conv.Title))
}

func TestRunTurn_EmptyMessageRejectedWithoutWrites(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{reply: "ok"})

	_, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: "   "})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	require.Equal(t, platformerrors.ErrorTypeValidation, platformErr.Type)

	require.Empty(t, store.conversations)
	require.Empty(t, store.messages)
}

func TestRunTurn_UnknownConversation(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{reply: "ok"})

	_, err := service.RunTurn(context.Background(), chat.TurnRequest{
		ConversationID: "conv_missing",
		Message:        "hello",
	})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	require.Equal(t, platformerrors.ErrorTypeNotFound, platformErr.Type)
}

func TestRunTurn_ModelFailureUsesFallback(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{err: errors.New("model unavailable")})

	result, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, chat.FallbackReply, result.Reply)

	conv := store.conversations[result.ConversationID]
	messages := store.messagesFor(conv.ID)
	require.Len(t, messages, 2)
	require.Equal(t, chat.FallbackReply, messages[1].Content)
}

func TestRunTurn_EmptyModelReplyUsesFallback(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{reply: ""})

	result, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, chat.FallbackReply, result.Reply)
}

func TestRunTurn_UnknownFileIDYieldsWarningNotError(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store, &stubCompleter{reply: "ok"})

	result, err := service.RunTurn(context.Background(), chat.TurnRequest{
		Message: "what about this file?",
		FileIDs: []string{"file_missing"},
	})
	require.NoError(t, err)
	require.Equal(t, "ok", result.Reply)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, result.Warnings[0], "file_missing")
	require.Empty(t, store.links, "no association row for unknown id")
}

func TestRunTurn_FileFetchFailureAbortsTurn(t *testing.T) {
	store := newMemoryStore()
	conv, err := store.CreateConversation(context.Background(), "docs")
	require.NoError(t, err)
	store.failFiles = true

	completer := &stubCompleter{reply: "ok"}
	service := newTestService(store, completer)

	_, err = service.RunTurn(context.Background(), chat.TurnRequest{
		ConversationID: conv.PublicID,
		Message:        "summarize",
		FileIDs:        []string{"file_1"},
	})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	require.Equal(t, platformerrors.ErrorTypeInternal, platformErr.Type)

	require.Empty(t, completer.lastPrompt, "no completion without the requested documents")
	messages := store.messagesFor(conv.ID)
	require.Len(t, messages, 1, "only the user message is persisted")
	require.Equal(t, chat.RoleUser, messages[0].Role)
}

func TestRunTurn_LinkFailuresDoNotAbortTurn(t *testing.T) {
	store := newMemoryStore()
	conv, err := store.CreateConversation(context.Background(), "docs")
	require.NoError(t, err)

	text := "document text"
	file := &chat.File{PublicID: "file_1", ConversationID: conv.ID, OriginalName: "doc.pdf", ExtractedText: &text}
	require.NoError(t, store.CreateFile(context.Background(), file))
	store.failLink = true

	service := newTestService(store, &stubCompleter{reply: "ok"})

	result, err := service.RunTurn(context.Background(), chat.TurnRequest{
		ConversationID: conv.PublicID,
		Message:        "summarize",
		FileIDs:        []string{"file_1"},
	})
	require.NoError(t, err)
	// One failed link per side of the turn.
	require.Len(t, result.Warnings, 2)
}

func TestRunTurn_FilesLinkedToBothMessages(t *testing.T) {
	store := newMemoryStore()
	conv, err := store.CreateConversation(context.Background(), "docs")
	require.NoError(t, err)

	text := "document text"
	file := &chat.File{PublicID: "file_1", ConversationID: conv.ID, OriginalName: "doc.pdf", ExtractedText: &text}
	require.NoError(t, store.CreateFile(context.Background(), file))

	service := newTestService(store, &stubCompleter{reply: "ok"})

	_, err = service.RunTurn(context.Background(), chat.TurnRequest{
		ConversationID: conv.PublicID,
		Message:        "summarize",
		FileIDs:        []string{"file_1"},
	})
	require.NoError(t, err)
	require.Len(t, store.links, 2, "file linked to user and assistant messages")
}

func TestRunTurn_PromptCarriesContextAndQuestion(t *testing.T) {
	store := newMemoryStore()
	conv, err := store.CreateConversation(context.Background(), "docs")
	require.NoError(t, err)

	text := "the grand total is 42"
	file := &chat.File{PublicID: "file_1", ConversationID: conv.ID, OriginalName: "doc.pdf", ExtractedText: &text}
	require.NoError(t, store.CreateFile(context.Background(), file))

	_, err = store.AppendMessage(context.Background(), conv.ID, chat.RoleUser, "earlier question")
	require.NoError(t, err)

	completer := &stubCompleter{reply: "42"}
	service := newTestService(store, completer)

	_, err = service.RunTurn(context.Background(), chat.TurnRequest{
		ConversationID: conv.PublicID,
		Message:        "what is the total?",
		FileIDs:        []string{"file_1"},
	})
	require.NoError(t, err)

	require.Equal(t, chat.FeeSystemPrompt, completer.lastSystem)
	require.Contains(t, completer.lastPrompt, "the grand total is 42")
	require.Contains(t, completer.lastPrompt, "earlier question")
	require.Contains(t, completer.lastPrompt, "User question: what is the total?")
}

func TestRunTurn_StorageFailureIsFatal(t *testing.T) {
	store := newMemoryStore()
	store.failAppend = true
	service := newTestService(store, &stubCompleter{reply: "ok"})

	_, err := service.RunTurn(context.Background(), chat.TurnRequest{Message: "hello"})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	require.Equal(t, platformerrors.ErrorTypeInternal, platformErr.Type)
}
