package meta

import (
	"testing"
	"time"

	"github.com/matheus3301/chatlens/internal/chatlog"
)

func msg(sender, body string, day int) chatlog.Message {
	return chatlog.Message{
		SentAt: time.Date(2021, time.May, day, 12, 0, 0, 0, time.Local),
		Time:   "12:00:00",
		Sender: sender,
		Body:   body,
	}
}

func TestExtractSenderCounts(t *testing.T) {
	msgs := []chatlog.Message{
		msg("John Doe", "hi", 1),
		msg("Jane Roe", "hello", 1),
		msg("John Doe", "how are you", 2),
	}

	md := Extract(msgs, "chat.txt", "en", chatlog.DialectIOS)

	if md.Senders["John Doe"] != 2 || md.Senders["Jane Roe"] != 1 {
		t.Errorf("Senders = %v", md.Senders)
	}
	total := 0
	for _, n := range md.Senders {
		total += n
	}
	if total != len(msgs) {
		t.Errorf("counts sum to %d, want %d", total, len(msgs))
	}
	if md.FileName != "chat.txt" || md.Language != "en" || md.Dialect != chatlog.DialectIOS {
		t.Errorf("pass-through fields wrong: %+v", md)
	}
}

func TestExtractShortNames(t *testing.T) {
	msgs := []chatlog.Message{
		msg("John Doe", "a", 1),
		msg("John Dorn", "b", 1),
	}
	md := Extract(msgs, "c.txt", "en", chatlog.DialectAndroid)

	if md.SendersShort["John Doe"] != "John D." {
		t.Errorf("John Doe short = %q", md.SendersShort["John Doe"])
	}
	if md.SendersShort["John Dorn"] != "John D. (2)" {
		t.Errorf("John Dorn short = %q (collisions numbered in encounter order)", md.SendersShort["John Dorn"])
	}
}

func TestExtractFirstLastDates(t *testing.T) {
	msgs := []chatlog.Message{msg("A", "x", 3), msg("A", "y", 20)}
	md := Extract(msgs, "c.txt", "en", chatlog.DialectIOS)
	if md.FirstMessage.Day() != 3 || md.LastMessage.Day() != 20 {
		t.Errorf("first/last = %v / %v", md.FirstMessage, md.LastMessage)
	}
}

func TestExtractEmptyList(t *testing.T) {
	before := time.Now()
	md := Extract(nil, "c.txt", "en", chatlog.DialectIOS)
	after := time.Now()

	if md.FirstMessage.Before(before) || md.FirstMessage.After(after) {
		t.Errorf("FirstMessage = %v, want now", md.FirstMessage)
	}
	if len(md.Senders) != 0 || len(md.SendersShort) != 0 {
		t.Errorf("expected empty sender maps, got %v / %v", md.Senders, md.SendersShort)
	}
}

func TestLanguageSampleBounded(t *testing.T) {
	var msgs []chatlog.Message
	for i := 0; i < 150; i++ {
		msgs = append(msgs, msg("A", "body", 1))
	}
	sample := LanguageSample(msgs)
	want := 100 * len("body\n")
	if len(sample) != want {
		t.Errorf("sample length = %d, want %d", len(sample), want)
	}
}
