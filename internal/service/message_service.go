package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/repository"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type messageStore interface {
	Load(ctx context.Context) ([]models.Message, error)
	Save(ctx context.Context, messages []models.Message) error
}

// MessageService manages direct conversations between users.
type MessageService struct {
	store     messageStore
	users     authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// NewMessageService constructs a MessageService. users may be nil to skip recipient checks.
func NewMessageService(store messageStore, users authUserRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{store: store, users: users, validator: validate, logger: logger, now: time.Now}
}

// ThreadsFor groups the identity's messages by counterpart. Messages inside a
// conversation are oldest first; conversations are most recent first.
func (s *MessageService) ThreadsFor(ctx context.Context, identity string) ([]models.Conversation, error) {
	messages, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byCounterpart := make(map[string]*models.Conversation)
	for _, msg := range messages {
		if !msg.Involves(identity) {
			continue
		}
		counterpart := msg.Counterpart(identity)
		conv, ok := byCounterpart[counterpart]
		if !ok {
			conv = &models.Conversation{Counterpart: counterpart}
			byCounterpart[counterpart] = conv
		}
		conv.Messages = append(conv.Messages, msg)
		if msg.Receiver == identity && !msg.Read {
			conv.Unread++
		}
	}

	threads := make([]models.Conversation, 0, len(byCounterpart))
	for _, conv := range byCounterpart {
		sort.SliceStable(conv.Messages, func(i, j int) bool {
			return conv.Messages[i].Timestamp.Before(conv.Messages[j].Timestamp)
		})
		for _, msg := range conv.Messages {
			if msg.Category != "" {
				conv.Category = msg.Category
				break
			}
		}
		conv.LastMessageAt = conv.Messages[len(conv.Messages)-1].Timestamp
		threads = append(threads, *conv)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].LastMessageAt.Equal(threads[j].LastMessageAt) {
			return threads[i].Counterpart < threads[j].Counterpart
		}
		return threads[i].LastMessageAt.After(threads[j].LastMessageAt)
	})
	return threads, nil
}

// Append stores a new unread message from the viewer.
func (s *MessageService) Append(ctx context.Context, viewer models.Viewer, req models.SendMessageRequest) (*models.Message, error) {
	if !viewer.Authenticated {
		return nil, appErrors.ErrUnauthorized
	}
	req.Receiver = strings.TrimSpace(req.Receiver)
	req.Category = strings.TrimSpace(req.Category)
	if strings.TrimSpace(req.Text) == "" {
		req.Text = ""
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if req.Receiver == viewer.Identity {
		return nil, appErrors.Validation("cannot send a message to yourself", "receiver")
	}
	if s.users != nil {
		if _, err := s.users.FindByUsername(ctx, req.Receiver); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "recipient not found")
			}
			return nil, appErrors.Storage(err, "failed to load users")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	msg := models.Message{
		Sender:    viewer.Identity,
		Receiver:  req.Receiver,
		Category:  req.Category,
		Text:      req.Text,
		Timestamp: s.now().UTC().Truncate(time.Second),
	}
	if err := s.store.Save(ctx, append(messages, msg)); err != nil {
		return nil, appErrors.Storage(err, "failed to save message")
	}
	return &msg, nil
}

// MarkRead flags every message from counterpart to identity as read and returns how many changed.
func (s *MessageService) MarkRead(ctx context.Context, identity, counterpart string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range messages {
		if messages[i].Receiver == identity && messages[i].Sender == counterpart && !messages[i].Read {
			messages[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.store.Save(ctx, messages); err != nil {
		return 0, appErrors.Storage(err, "failed to save messages")
	}
	return changed, nil
}

// UnreadCount counts unread messages addressed to identity.
func (s *MessageService) UnreadCount(ctx context.Context, identity string) (int, error) {
	messages, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, msg := range messages {
		if msg.Receiver == identity && !msg.Read {
			count++
		}
	}
	return count, nil
}

func (s *MessageService) load(ctx context.Context) ([]models.Message, error) {
	messages, err := s.store.Load(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load messages")
	}
	return messages, nil
}
