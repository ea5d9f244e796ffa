// Package meta derives chat-level metadata from a parsed message list.
package meta

import (
	"time"

	"github.com/matheus3301/chatlens/internal/chatlog"
	"github.com/matheus3301/chatlens/internal/contact"
)

// Metadata is the per-upload record consumed by chart components.
type Metadata struct {
	Language     string            `json:"language"`
	Dialect      chatlog.Dialect   `json:"os"`
	FirstMessage time.Time         `json:"firstMessageDate"`
	LastMessage  time.Time         `json:"lastMessageDate"`
	Senders      map[string]int    `json:"senders"`
	SendersShort map[string]string `json:"sendersShort"`
	FileName     string            `json:"fileName"`
}

// Extract computes metadata over the retained messages. Senders are counted
// in one pass and abbreviated in encounter order so short names stay stable
// across identical inputs. First/last dates fall back to now when the list
// is empty.
func Extract(msgs []chatlog.Message, fileName, language string, dialect chatlog.Dialect) Metadata {
	md := Metadata{
		Language:     language,
		Dialect:      dialect,
		FileName:     fileName,
		Senders:      make(map[string]int),
		SendersShort: make(map[string]string),
	}

	var order []string
	for _, m := range msgs {
		if _, seen := md.Senders[m.Sender]; !seen {
			order = append(order, m.Sender)
		}
		md.Senders[m.Sender]++
	}

	shorts := contact.Abbreviate(order)
	for i, sender := range order {
		md.SendersShort[sender] = shorts[i]
	}

	if len(msgs) == 0 {
		now := time.Now()
		md.FirstMessage, md.LastMessage = now, now
	} else {
		md.FirstMessage = msgs[0].SentAt
		md.LastMessage = msgs[len(msgs)-1].SentAt
	}
	return md
}

// SampleBodies bounds how many message bodies feed language detection.
const SampleBodies = 100

// LanguageSample concatenates the first bodies of msgs for language
// detection; very short chats simply yield less signal.
func LanguageSample(msgs []chatlog.Message) string {
	n := len(msgs)
	if n > SampleBodies {
		n = SampleBodies
	}
	var b []byte
	for _, m := range msgs[:n] {
		b = append(b, m.Body...)
		b = append(b, '\n')
	}
	return string(b)
}
