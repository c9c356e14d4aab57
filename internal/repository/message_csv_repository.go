package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

var messageColumns = []string{"sender", "receiver", "category", "text", "timestamp", "read"}

// MessageCSVRepository stores chat messages in a flat CSV file.
type MessageCSVRepository struct {
	table  csvTable
	logger *zap.Logger
}

// NewMessageCSVRepository constructs the CSV message store.
func NewMessageCSVRepository(store *storage.LocalStorage, file string, logger *zap.Logger) *MessageCSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageCSVRepository{table: newCSVTable(store, file, messageColumns, logger), logger: logger}
}

// Load returns every message in file order.
func (r *MessageCSVRepository) Load(ctx context.Context) ([]models.Message, error) {
	rows := r.table.read("sender", "receiver", "text")
	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		msg := models.Message{
			Sender:   row.get("sender"),
			Receiver: row.get("receiver"),
			Category: row.get("category"),
			Text:     row["text"],
			Read:     parseBool(row.get("read")),
		}
		ts, err := parseDate(row.get("timestamp"))
		if err != nil {
			r.logger.Warn("message timestamp unparsable", zap.String("sender", msg.Sender), zap.Error(err))
		}
		if ts != nil {
			msg.Timestamp = *ts
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Save overwrites the message table.
func (r *MessageCSVRepository) Save(ctx context.Context, messages []models.Message) error {
	records := make([][]string, 0, len(messages))
	for _, m := range messages {
		records = append(records, []string{
			m.Sender,
			m.Receiver,
			m.Category,
			m.Text,
			formatTime(m.Timestamp),
			strconv.FormatBool(m.Read),
		})
	}
	if err := r.table.write(records); err != nil {
		return fmt.Errorf("save messages: %w", err)
	}
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}
