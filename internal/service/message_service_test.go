package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
	appErrors "github.com/noah-isme/ideaboard-api/pkg/errors"
)

type fakeMessageStore struct {
	messages []models.Message
	saves    int
}

func (f *fakeMessageStore) Load(context.Context) ([]models.Message, error) {
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeMessageStore) Save(_ context.Context, messages []models.Message) error {
	f.saves++
	f.messages = append([]models.Message(nil), messages...)
	return nil
}

func at(minutes int) time.Time {
	return fixedNow.Add(time.Duration(minutes) * time.Minute)
}

func TestMessageServiceThreads(t *testing.T) {
	store := &fakeMessageStore{messages: []models.Message{
		{Sender: "ana", Receiver: "bob", Category: "AI", Text: "hi bob", Timestamp: at(1)},
		{Sender: "bob", Receiver: "ana", Text: "hello", Timestamp: at(3)},
		{Sender: "cid", Receiver: "ana", Text: "ping", Timestamp: at(5)},
		{Sender: "bob", Receiver: "ana", Text: "earlier", Timestamp: at(0), Read: true},
		{Sender: "bob", Receiver: "cid", Text: "not ana's", Timestamp: at(9)},
	}}
	svc := NewMessageService(store, nil, nil, nil)

	threads, err := svc.ThreadsFor(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, threads, 2)

	assert.Equal(t, "cid", threads[0].Counterpart, "most recent thread first")
	assert.Equal(t, 1, threads[0].Unread)

	withBob := threads[1]
	assert.Equal(t, "AI", withBob.Category)
	assert.Equal(t, 1, withBob.Unread)
	require.Len(t, withBob.Messages, 3)
	assert.Equal(t, "earlier", withBob.Messages[0].Text)
	assert.Equal(t, at(3), withBob.LastMessageAt)

	count, err := svc.UnreadCount(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMessageServiceAppendAndMarkRead(t *testing.T) {
	store := &fakeMessageStore{}
	svc := NewMessageService(store, newFakeUsers(t), nil, nil)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	msg, err := svc.Append(ctx, ana, models.SendMessageRequest{Receiver: "admin", Category: "HEALTH", Text: "please review"})
	require.NoError(t, err)
	assert.Equal(t, "ana", msg.Sender)
	assert.False(t, msg.Read)
	assert.Equal(t, fixedNow, msg.Timestamp)

	count, err := svc.UnreadCount(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	changed, err := svc.MarkRead(ctx, "admin", "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	count, err = svc.UnreadCount(ctx, "admin")
	require.NoError(t, err)
	assert.Zero(t, count)

	saves := store.saves
	changed, err = svc.MarkRead(ctx, "admin", "ana")
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, saves, store.saves)
}

func TestMessageServiceAppendValidation(t *testing.T) {
	store := &fakeMessageStore{}
	svc := NewMessageService(store, newFakeUsers(t), nil, nil)
	ctx := context.Background()

	_, err := svc.Append(ctx, ana, models.SendMessageRequest{Receiver: "ana", Text: "me"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Append(ctx, ana, models.SendMessageRequest{Receiver: "admin", Text: "   "})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Append(ctx, ana, models.SendMessageRequest{Receiver: "ghost", Text: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Append(ctx, models.Anonymous(), models.SendMessageRequest{Receiver: "admin", Text: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	assert.Zero(t, store.saves)
}
