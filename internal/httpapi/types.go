// Package httpapi serves the dashboard backend over HTTP.
package httpapi

import (
	"time"

	"github.com/matheus3301/chatlens/internal/chatlog"
	"github.com/matheus3301/chatlens/internal/filter"
	"github.com/matheus3301/chatlens/internal/meta"
	"github.com/matheus3301/chatlens/internal/pipeline"
	"github.com/matheus3301/chatlens/internal/store"
)

// uploadRequest is the POST /api/chats payload.
type uploadRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// uploadResponse summarizes a successful parse.
type uploadResponse struct {
	ID           string        `json:"id"`
	MessageCount int           `json:"messageCount"`
	Metadata     meta.Metadata `json:"metadata"`
}

// chatSummary is one row of GET /api/chats.
type chatSummary struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	Language     string    `json:"language"`
	OS           string    `json:"os"`
	FirstMessage time.Time `json:"firstMessageDate"`
	LastMessage  time.Time `json:"lastMessageDate"`
	MessageCount int       `json:"messageCount"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// chatDetail extends the summary with per-sender statistics for
// GET /api/chats/{id}.
type chatDetail struct {
	chatSummary
	Senders      map[string]int    `json:"senders"`
	SendersShort map[string]string `json:"sendersShort"`
}

// filterRequest is the POST /api/chats/{id}/filter payload.
type filterRequest struct {
	Filters             filterOptions `json:"filters"`
	LastAppliedMinShare float64       `json:"lastAppliedMinPercentage"`
}

// filterOptions overlays filter.Options so an absent minimum share can be
// told apart from an explicit zero and fall back to the configured default.
type filterOptions struct {
	filter.Options
	MinSharePercent *float64 `json:"minSharePercent"`
}

func (f filterOptions) resolve(defaultMinShare float64) filter.Options {
	opts := f.Options
	if f.MinSharePercent != nil {
		opts.MinSharePercent = *f.MinSharePercent
	} else {
		opts.MinSharePercent = defaultMinShare
	}
	if opts.Weekdays == nil {
		opts.Weekdays = filter.AllWeekdays()
	}
	return opts
}

// messagesPage is the GET /api/chats/{id}/messages response.
type messagesPage struct {
	Messages []chatlog.Message `json:"messages"`
	HasMore  bool              `json:"hasMore"`
	NextSeq  int               `json:"nextSeq"`
}

// searchHit is one full-text search result.
type searchHit struct {
	Message chatlog.Message `json:"message"`
	Snippet string          `json:"snippet"`
}

func summarize(c store.Chat) chatSummary {
	return chatSummary{
		ID:           c.ID,
		FileName:     c.FileName,
		Language:     c.Language,
		OS:           c.Dialect,
		FirstMessage: time.UnixMilli(c.FirstMessageAt),
		LastMessage:  time.UnixMilli(c.LastMessageAt),
		MessageCount: c.MessageCount,
		UploadedAt:   time.UnixMilli(c.CreatedAt),
	}
}

// toRows converts a parse result into store rows under a fresh chat id.
func toRows(id string, result *pipeline.ParseResult) (*store.Chat, []store.Message, []store.Sender) {
	md := result.Metadata
	chat := &store.Chat{
		ID:             id,
		FileName:       md.FileName,
		Language:       md.Language,
		Dialect:        string(md.Dialect),
		FirstMessageAt: md.FirstMessage.UnixMilli(),
		LastMessageAt:  md.LastMessage.UnixMilli(),
		MessageCount:   len(result.Messages),
	}

	msgs := make([]store.Message, 0, len(result.Messages))
	for i, m := range result.Messages {
		msgs = append(msgs, store.Message{
			ChatID:    id,
			Seq:       i,
			Sender:    m.Sender,
			Body:      m.Body,
			SentAt:    m.SentAt.UnixMilli(),
			TimeOfDay: m.Time,
			Weekday:   filter.WeekdayLabel(m.SentAt),
		})
	}

	senders := make([]store.Sender, 0, len(md.Senders))
	for name, count := range md.Senders {
		senders = append(senders, store.Sender{
			ChatID:       id,
			Name:         name,
			ShortName:    md.SendersShort[name],
			MessageCount: count,
		})
	}
	return chat, msgs, senders
}

// fromRow converts a stored message row back to the in-memory form the
// filter engine works on.
func fromRow(m store.Message) chatlog.Message {
	return chatlog.Message{
		SentAt: time.UnixMilli(m.SentAt),
		Time:   m.TimeOfDay,
		Sender: m.Sender,
		Body:   m.Body,
	}
}

func fromRows(rows []store.Message) []chatlog.Message {
	out := make([]chatlog.Message, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out
}
