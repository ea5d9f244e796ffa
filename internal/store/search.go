package store

// SearchMessages performs a full-text search over message bodies within one
// chat, returning snippet-highlighted matches in relevance order.
func (db *DB) SearchMessages(chatID, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(`
		SELECT m.id, m.chat_id, m.seq, m.sender, m.body, m.sent_at, m.time_of_day, m.weekday,
		       snippet(messages_fts, 0, '<<', '>>', '...', 32)
		FROM messages_fts f
		JOIN messages m ON m.id = f.rowid
		WHERE messages_fts MATCH ? AND m.chat_id = ?
		ORDER BY rank LIMIT ?`, query, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(
			&r.Message.ID, &r.Message.ChatID, &r.Message.Seq, &r.Message.Sender,
			&r.Message.Body, &r.Message.SentAt, &r.Message.TimeOfDay, &r.Message.Weekday,
			&r.Snippet,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
