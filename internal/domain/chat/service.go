package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"fee-server/internal/utils/platformerrors"
)

const (
	// HistoryWindow is the fixed number of prior messages included in the
	// prompt context for a single model call.
	HistoryWindow = 10

	// MaxReplyTokens bounds the generated reply length.
	MaxReplyTokens = 1500

	// SamplingTemperature is the fixed sampling temperature for every call.
	SamplingTemperature = 0.7

	// FallbackReply is substituted when the model errors or returns nothing.
	// The turn still completes and persists this reply.
	FallbackReply = "I could not generate a response."

	titleMaxChars = 50
)

// TurnRequest is the input for one chat turn.
type TurnRequest struct {
	ConversationID string
	Message        string
	FileIDs        []string
}

// TurnResult is the outcome of a completed turn. Warnings carry per-file-id
// link failures that were absorbed without failing the turn.
type TurnResult struct {
	ConversationID string
	Reply          string
	MessageID      string
	Warnings       []string
}

// Service runs chat turns: it resolves the conversation, persists both
// sides of the turn, assembles the bounded prompt context and invokes the
// completion provider.
type Service struct {
	store     Store
	completer Completer
	log       zerolog.Logger
}

func NewService(store Store, completer Completer, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		completer: completer,
		log:       log.With().Str("component", "chat-service").Logger(),
	}
}

// RunTurn executes one chat turn. A missing message is a precondition
// violation with no side effects; storage failures abort the turn with the
// rows written so far left in place.
func (s *Service) RunTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message is required", nil, "c9d1a4f2-3e6b-4f8a-9c0d-5e7f1a2b3c4d")
	}

	conv, err := s.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.store.AppendMessage(ctx, conv.ID, RoleUser, req.Message)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist user message")
	}

	files, warnings, err := s.resolveFiles(ctx, req.FileIDs)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, s.linkFiles(ctx, userMsg.ID, files)...)

	history, err := s.store.RecentMessages(ctx, conv.ID, HistoryWindow)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation history")
	}

	texts := make([]string, 0, len(files))
	for _, f := range files {
		texts = append(texts, f.Text())
	}
	promptContext := BuildContext(history, texts)

	reply := s.complete(ctx, promptContext, req.Message)

	assistantMsg, err := s.store.AppendMessage(ctx, conv.ID, RoleAssistant, reply)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist assistant message")
	}

	warnings = append(warnings, s.linkFiles(ctx, assistantMsg.ID, files)...)

	return &TurnResult{
		ConversationID: conv.PublicID,
		Reply:          reply,
		MessageID:      assistantMsg.PublicID,
		Warnings:       warnings,
	}, nil
}

func (s *Service) resolveConversation(ctx context.Context, req TurnRequest) (*Conversation, error) {
	if req.ConversationID == "" {
		conv, err := s.store.CreateConversation(ctx, truncateChars(req.Message, titleMaxChars))
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
		}
		return conv, nil
	}

	conv, err := s.store.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load conversation")
	}
	if conv == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "f2a8b6c1-9d3e-4a5f-8b7c-0d1e2f3a4b5c")
	}
	return conv, nil
}

// resolveFiles fetches the File rows for the supplied ids in request order.
// Unknown ids become warnings; a failing fetch is a storage failure and
// aborts the turn.
func (s *Service) resolveFiles(ctx context.Context, fileIDs []string) ([]*File, []string, error) {
	if len(fileIDs) == 0 {
		return nil, nil, nil
	}

	rows, err := s.store.FilesByPublicIDs(ctx, fileIDs)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load files")
	}

	byID := make(map[string]*File, len(rows))
	for _, f := range rows {
		byID[f.PublicID] = f
	}

	var files []*File
	var warnings []string
	for _, id := range fileIDs {
		f, ok := byID[id]
		if !ok {
			s.log.Warn().Str("file_id", id).Msg("unknown file id in turn request")
			warnings = append(warnings, fmt.Sprintf("unknown file id %s", id))
			continue
		}
		files = append(files, f)
	}
	return files, warnings, nil
}

// linkFiles attempts one association per file. Each failure is logged and
// collected individually; none aborts the turn.
func (s *Service) linkFiles(ctx context.Context, messageID uint, files []*File) []string {
	var warnings []string
	for _, f := range files {
		if err := s.store.LinkFile(ctx, messageID, f.ID); err != nil {
			s.log.Warn().Err(err).Str("file_id", f.PublicID).Msg("could not link file")
			warnings = append(warnings, fmt.Sprintf("could not link file %s: %v", f.PublicID, err))
		}
	}
	return warnings
}

func (s *Service) complete(ctx context.Context, promptContext, question string) string {
	prompt := fmt.Sprintf("%s\n\nUser question: %s", promptContext, question)

	reply, err := s.completer.Complete(ctx, FeeSystemPrompt, prompt, MaxReplyTokens, SamplingTemperature)
	if err != nil {
		s.log.Warn().Err(err).Msg("completion failed, using fallback reply")
		return FallbackReply
	}
	if reply == "" {
		return FallbackReply
	}
	return reply
}

func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
