package models

import "time"

// Message is one chat entry between two users.
type Message struct {
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Category  string    `json:"category,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Involves reports whether the user is a participant.
func (m Message) Involves(username string) bool {
	return m.Sender == username || m.Receiver == username
}

// Counterpart returns the other participant from the perspective of username.
func (m Message) Counterpart(username string) string {
	if m.Sender == username {
		return m.Receiver
	}
	return m.Sender
}

// Conversation groups the messages exchanged with one counterpart.
type Conversation struct {
	Counterpart   string    `json:"counterpart"`
	Category      string    `json:"category,omitempty"`
	Messages      []Message `json:"messages"`
	Unread        int       `json:"unread"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// SendMessageRequest is the payload for appending a message.
type SendMessageRequest struct {
	Receiver string `json:"receiver" validate:"required,max=255"`
	Category string `json:"category" validate:"max=100"`
	Text     string `json:"text" validate:"required,max=4000"`
}
