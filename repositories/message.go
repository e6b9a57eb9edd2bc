//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"peer-chat/domain"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

const messagePrefix = "msg:"

type IMessageRepository interface {
	StoreMessage(message domain.ChatMessage) (uint64, error)
	GetMessages(cursor *string) ([]domain.ChatMessage, *string, error)
}

// MessageRepository is the append-only message list of one session.
// The DB is opened in memory: the list lives as long as the session.
type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
	seq           atomic.Uint64
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// OpenInMemory opens a Badger instance that never touches the disk.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
}

// StoreMessage appends a message and returns its sequence number.
// The key is formatted as "msg:{seq_padded}" with 20-digit zero padding so
// that lexicographical order is append order. Timestamps are not used in the
// key: two messages created in the same nanosecond still keep their order.
func (m *MessageRepository) StoreMessage(message domain.ChatMessage) (uint64, error) {
	seq := m.seq.Add(1)
	key := messageKey(seq)
	bytes := encodeMessage(message)
	err := m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return 0, fmt.Errorf("unable to store message %s: %w", message.ID, err)
	}
	return seq, nil
}

// GetMessages retrieves messages in append order, starting after the cursor.
// It stops collecting messages once the configured limitMessages is reached and
// returns the cursor of the last message read. A nil cursor is returned when
// there is nothing left to read.
func (m *MessageRepository) GetMessages(cursor *string) ([]domain.ChatMessage, *string, error) {
	var byteMessages [][]byte
	var lastKey string
	limitReached := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append([]byte(messagePrefix), []byte(*cursor)...)
		}
		it.Seek(seekKey)

		// The cursor itself has already been returned by the previous page
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				limitReached = true
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.ChatMessage, 0, len(byteMessages))
	for _, b := range byteMessages {
		message, err := decodeMessage(b)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	if !limitReached {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// GetAllMessages walks every page.
func GetAllMessages(repository IMessageRepository) ([]domain.ChatMessage, error) {
	var all []domain.ChatMessage
	var cursor *string
	for {
		page, next, err := repository.GetMessages(cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == nil || len(page) == 0 {
			return all, nil
		}
		cursor = next
	}
}

func messageKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", messagePrefix, seq)
}
