package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const maxChatMessageLength = 2000

// mpiKnowledgeBase grounds the assistant in the organisation's public information.
const mpiKnowledgeBase = `You are MathareForPeace-GPT, the assistant of the Mathare Peace Initiative (MPI) Kenya.
Answer questions about MPI and about peace building knowledge that helps communities and individuals.
Be descriptive, friendly and professional. Politely decline unrelated topics and steer back to MPI or peace.

About MPI:
- Youth-led community based organisation founded in 2014, located behind the Mathare DCC Office, Mathare, Nairobi.
- Founded and directed by Alphonce Were.
- Website https://mpikenya.org, email info@mpikenya.org, phone +254 722 419 980, YouTube channel "Mathare For Peace Initiative".
- Mission: peaceful coexistence, community empowerment and youth leadership in Mathare and beyond, through dialogue,
  conflict resolution and programs that bring communities together to prevent violence.
- Partners: schools, churches, youth groups, government and peace institutions, civil society and global peace networks.
- Programs: peace education, sports for peace, dialogue forums, women empowerment, youth empowerment.
- Income generating services: computer packages training, video and photo editing, branding and printing,
  branded merchandise, web and mobile app development.

General peace knowledge you may share: active listening, focusing on issues instead of personalities, win-win solutions,
calm language, mindfulness and journaling for inner peace, dialogue, arts and sports to bridge differences,
and the examples of Nelson Mandela, Wangari Maathai and Martin Luther King Jr.`

// ChatUseCase proxies messages to the AI service with per-conversation history.
type ChatUseCase struct {
	ai      usecasecontract.IAIService
	history contract.IChatRepository
	uuidGen contract.IUUIDGenerator
	logger  usecasecontract.IAppLogger
	limit   int
	now     func() time.Time
}

// check if ChatUseCase implement IChatUseCase
var _ usecasecontract.IChatUseCase = (*ChatUseCase)(nil)

func NewChatUseCase(ai usecasecontract.IAIService, history contract.IChatRepository, uuidGen contract.IUUIDGenerator, logger usecasecontract.IAppLogger, cfg usecasecontract.IConfigProvider) *ChatUseCase {
	return &ChatUseCase{
		ai:      ai,
		history: history,
		uuidGen: uuidGen,
		logger:  logger,
		limit:   cfg.GetChatHistoryLimit(),
		now:     time.Now,
	}
}

func (uc *ChatUseCase) Chat(ctx context.Context, conversationID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", "", entity.NewValidationError("Message is required.")
	}
	if utf8.RuneCountInString(message) > maxChatMessageLength {
		return "", "", entity.NewValidationError(fmt.Sprintf("Message must be at most %d characters.", maxChatMessageLength))
	}

	var past []entity.ChatMessage
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = uc.uuidGen.NewUUID()
	} else {
		conv, err := uc.history.GetConversation(ctx, conversationID)
		switch {
		case err == nil:
			past = conv.Messages
		case errors.Is(err, entity.ErrNotFound):
			// expired or unknown ids start over under the same id
		default:
			uc.logger.Warnf("failed to load conversation %s: %v", conversationID, err)
		}
	}

	userMsg := entity.ChatMessage{Role: entity.ChatRoleUser, Content: message, At: uc.now()}
	reply, err := uc.ai.GenerateContent(ctx, buildChatPrompt(past, userMsg))
	if err != nil {
		uc.logger.Errorf("ai service failed: %v", err)
		return "", "", entity.NewUpstreamError("Failed to get a response from the AI.", err)
	}

	botMsg := entity.ChatMessage{Role: entity.ChatRoleBot, Content: reply, At: uc.now()}
	if err := uc.history.AppendMessages(ctx, conversationID, []entity.ChatMessage{userMsg, botMsg}, uc.limit); err != nil {
		uc.logger.Warnf("failed to save conversation %s: %v", conversationID, err)
	}
	return reply, conversationID, nil
}

func buildChatPrompt(past []entity.ChatMessage, next entity.ChatMessage) string {
	var b strings.Builder
	b.WriteString(mpiKnowledgeBase)
	b.WriteString("\n\n")
	for _, m := range append(past, next) {
		if m.Role == entity.ChatRoleUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Bot: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("Bot:")
	return b.String()
}
