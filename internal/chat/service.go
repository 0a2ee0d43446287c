package chat

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/ghartak/ghartak-backend/pkg/errors"
	"github.com/ghartak/ghartak-backend/pkg/logger"
	"github.com/ghartak/ghartak-backend/pkg/openai"
)

// CompletionClient is the slice of the model client the assistant needs.
type CompletionClient interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// Input is one conversational turn from the client, with the rolling history
// it maintains.
type Input struct {
	UserID  string
	Message string
	History []openai.Message
}

// Result carries the assistant's reply plus the extended history the client
// sends back on the next turn.
type Result struct {
	Message string
	History []openai.Message
}

// Service grounds an external conversational model with platform context.
type Service struct {
	reader Reader
	client CompletionClient
	logg   *logger.Logger
}

// NewService builds the chat assistant. Client may be nil when the model key
// is not configured; Chat then fails fast with a 503.
func NewService(reader Reader, client CompletionClient, logg *logger.Logger) (*Service, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order reader required")
	}
	return &Service{reader: reader, client: client, logg: logg}, nil
}

// Chat runs one conversational turn: build context, prepend the system
// prompt, call the model, extend the history.
func (s *Service) Chat(ctx context.Context, input Input) (*Result, error) {
	if s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "AI chat is not available: model API key not configured").
			WithSuggestion("Please configure the model API key to use the AI assistant.")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	platform, err := BuildContext(ctx, s.reader, input.UserID)
	if err != nil {
		return nil, err
	}

	messages := make([]openai.Message, 0, len(input.History)+2)
	messages = append(messages, openai.Message{
		Role:    openai.RoleSystem,
		Content: systemPrompt(platform, input.UserID),
	})
	messages = append(messages, input.History...)
	messages = append(messages, openai.Message{Role: openai.RoleUser, Content: input.Message})

	reply, err := s.client.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		userID := input.UserID
		if userID == "" {
			userID = "anonymous"
		}
		s.logg.Info(s.logg.WithUserID(ctx, userID), "chat.reply_generated")
	}

	history := append(append([]openai.Message(nil), input.History...),
		openai.Message{Role: openai.RoleUser, Content: input.Message},
		openai.Message{Role: openai.RoleAssistant, Content: reply},
	)
	return &Result{Message: reply, History: history}, nil
}

func systemPrompt(platform *Context, userID string) string {
	vendors := "Various local vendors"
	if len(platform.AvailableVendors) > 0 {
		vendors = strings.Join(platform.AvailableVendors, ", ")
	}

	var b strings.Builder
	b.WriteString("You are Ghartak AI Assistant, a helpful chatbot for a hyperlocal grocery delivery platform called Ghartak.\n\n")
	b.WriteString("Your role is to:\n")
	b.WriteString("- Help users find vendors and products\n")
	b.WriteString("- Track orders and provide order status\n")
	b.WriteString("- Answer questions about the platform\n")
	b.WriteString("- Provide product recommendations\n")
	b.WriteString("- Help with any issues or concerns\n\n")
	b.WriteString("Current platform context:\n")
	fmt.Fprintf(&b, "- Total orders in system: %d\n", platform.TotalOrders)
	if userID != "" {
		fmt.Fprintf(&b, "- User's order count: %d\n", platform.UserOrderCount)
	}
	fmt.Fprintf(&b, "- Available vendors: %s\n\n", vendors)
	b.WriteString("Be friendly, concise, and helpful. If you don't know something specific about an order or vendor, acknowledge it and suggest the user check their order history or contact support.")
	return b.String()
}
