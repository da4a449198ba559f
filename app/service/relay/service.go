package relay

import (
	"context"
	"log/slog"

	"contextbot/app/client/llm"
	"contextbot/app/service/contextstore"
	"contextbot/app/service/conversation"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

const (
	personaPrompt = "You are ChatGPT, a helpful assistant."

	// Discord caps a single message at 2000 characters.
	maxMessageLength = 2000

	duplicateNotice = "I think I already mentioned that!"
	failureNotice   = "Sorry, I couldn't come up with a reply. Please try again later."
)

// Completer is the outbound LLM capability the relay needs.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// Service turns an inbound message into a provider request and the
// resulting reply into outbound chunks, maintaining per-user history and
// duplicate suppression along the way.
type Service struct {
	contextSvc *contextstore.Service
	convSvc    *conversation.Service
	client     Completer
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		contextSvc: do.MustInvoke[*contextstore.Service](di),
		convSvc:    do.MustInvoke[*conversation.Service](di),
		client:     do.MustInvoke[*llm.Client](di),
	}, nil
}

func NewWithDeps(contextSvc *contextstore.Service, convSvc *conversation.Service, client Completer) *Service {
	return &Service{
		contextSvc: contextSvc,
		convSvc:    convSvc,
		client:     client,
	}
}

// Reply runs one stateful conversation turn for userID and returns the
// messages to send, in order. On provider failure the user turn is
// rolled back, a single apology chunk is returned and the error is
// reported for logging. Callers must serialize calls per userID.
func (s *Service) Reply(ctx context.Context, userID, text string) ([]string, error) {
	if s.convSvc.Len(userID) == 0 {
		s.convSvc.Append(userID, conversation.Message{Role: conversation.RoleSystem, Content: personaPrompt})
		s.convSvc.Append(userID, conversation.Message{Role: conversation.RoleSystem, Content: s.contextSvc.Inject()})
	}

	s.convSvc.Append(userID, conversation.Message{Role: conversation.RoleUser, Content: text})

	messages := pie.Map(s.convSvc.Messages(userID), func(m conversation.Message) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	})

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		s.convSvc.RemoveLast(userID)

		return []string{failureNotice}, oops.Errorf("completion failed: %w", err)
	}

	if reply == s.convSvc.LastReply(userID) {
		slog.Debug("Suppressed duplicate reply", "user_id", userID)

		return []string{duplicateNotice}, nil
	}

	s.convSvc.SetLastReply(userID, reply)
	s.convSvc.Append(userID, conversation.Message{Role: conversation.RoleAssistant, Content: reply})

	return splitMessage(reply, maxMessageLength), nil
}

// StatelessMessages builds the fixed three-message request used by the
// HTTP path: persona, context, incoming message. No history, no
// suppression.
func (s *Service) StatelessMessages(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: personaPrompt},
		{Role: openai.ChatMessageRoleSystem, Content: s.contextSvc.Inject()},
		{Role: openai.ChatMessageRoleUser, Content: text},
	}
}

func splitMessage(text string, size int) []string {
	runes := []rune(text)

	var chunks []string
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}

	return append(chunks, string(runes))
}
