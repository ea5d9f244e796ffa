package store

// ListMessages returns messages for a chat in assembly order using keyset
// pagination: pass afterSeq = -1 for the first page.
func (db *DB) ListMessages(chatID string, afterSeq, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.Query(`
		SELECT id, chat_id, seq, sender, body, sent_at, time_of_day, weekday
		FROM messages
		WHERE chat_id = ? AND seq > ?
		ORDER BY seq
		LIMIT ?`, chatID, afterSeq, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Seq, &m.Sender, &m.Body, &m.SentAt, &m.TimeOfDay, &m.Weekday); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AllMessages returns every message of a chat in assembly order. Filter
// recomputation always runs over the full list.
func (db *DB) AllMessages(chatID string) ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, chat_id, seq, sender, body, sent_at, time_of_day, weekday
		FROM messages WHERE chat_id = ? ORDER BY seq`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Seq, &m.Sender, &m.Body, &m.SentAt, &m.TimeOfDay, &m.Weekday); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
