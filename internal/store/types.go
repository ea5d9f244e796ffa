package store

// Chat is one uploaded and parsed export.
type Chat struct {
	ID             string
	FileName       string
	Language       string
	Dialect        string
	FirstMessageAt int64 // unix ms, local-naive
	LastMessageAt  int64
	MessageCount   int
	CreatedAt      int64
}

// Message is one retained message row. Seq is the assembly order within
// the chat, starting at 0.
type Message struct {
	ID        int64
	ChatID    string
	Seq       int
	Sender    string
	Body      string
	SentAt    int64 // unix ms, local-naive
	TimeOfDay string
	Weekday   string
}

// Sender is one per-chat sender statistics row.
type Sender struct {
	ChatID       string
	Name         string
	ShortName    string
	MessageCount int
}

// SearchResult holds a message with a highlighted search snippet.
type SearchResult struct {
	Message Message
	Snippet string
}
