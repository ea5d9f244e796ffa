package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertChat stores a parsed upload atomically: the chat row, all message
// rows, and the per-sender stats commit together or not at all, so a failed
// insert never leaves a partial upload behind.
func (db *DB) InsertChat(chat *Chat, msgs []Message, senders []Sender) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if chat.CreatedAt == 0 {
		chat.CreatedAt = time.Now().UnixMilli()
	}
	if _, err := tx.Exec(`
		INSERT INTO chats (id, file_name, language, dialect, first_message_at, last_message_at, message_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.FileName, chat.Language, chat.Dialect,
		chat.FirstMessageAt, chat.LastMessageAt, chat.MessageCount, chat.CreatedAt); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	msgStmt, err := tx.Prepare(`
		INSERT INTO messages (chat_id, seq, sender, body, sent_at, time_of_day, weekday)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare message insert: %w", err)
	}
	defer func() { _ = msgStmt.Close() }()

	for _, m := range msgs {
		if _, err := msgStmt.Exec(chat.ID, m.Seq, m.Sender, m.Body, m.SentAt, m.TimeOfDay, m.Weekday); err != nil {
			return fmt.Errorf("insert message %d: %w", m.Seq, err)
		}
	}

	for _, s := range senders {
		if _, err := tx.Exec(`
			INSERT INTO senders (chat_id, name, short_name, message_count)
			VALUES (?, ?, ?, ?)`,
			chat.ID, s.Name, s.ShortName, s.MessageCount); err != nil {
			return fmt.Errorf("insert sender %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetChat returns the chat with the given id, or nil if it does not exist.
func (db *DB) GetChat(id string) (*Chat, error) {
	var c Chat
	err := db.QueryRow(`
		SELECT id, file_name, language, dialect, first_message_at, last_message_at, message_count, created_at
		FROM chats WHERE id = ?`, id).
		Scan(&c.ID, &c.FileName, &c.Language, &c.Dialect, &c.FirstMessageAt, &c.LastMessageAt, &c.MessageCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChats returns uploads ordered by creation time, newest first.
func (db *DB) ListChats(limit, offset int) ([]Chat, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, file_name, language, dialect, first_message_at, last_message_at, message_count, created_at
		FROM chats ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.FileName, &c.Language, &c.Dialect, &c.FirstMessageAt, &c.LastMessageAt, &c.MessageCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// DeleteChat removes an upload; messages and senders cascade. Reports
// whether a row was actually deleted.
func (db *DB) DeleteChat(id string) (bool, error) {
	res, err := db.Exec(`DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListSenders returns the per-sender stats for a chat in descending
// message-count order.
func (db *DB) ListSenders(chatID string) ([]Sender, error) {
	rows, err := db.Query(`
		SELECT chat_id, name, short_name, message_count
		FROM senders WHERE chat_id = ? ORDER BY message_count DESC, name`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var senders []Sender
	for rows.Next() {
		var s Sender
		if err := rows.Scan(&s.ChatID, &s.Name, &s.ShortName, &s.MessageCount); err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}
	return senders, rows.Err()
}
