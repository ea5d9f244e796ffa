package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/matheus3301/chatlens/internal/bus"
	"github.com/matheus3301/chatlens/internal/ignore"
	"github.com/matheus3301/chatlens/internal/pipeline"
	"github.com/matheus3301/chatlens/internal/store"
)

const sampleExport = "[12.05.21, 08:15:00] Alice Smith: Good morning everyone\n" +
	"[12.05.21, 08:16:30] Bob: Morning! How was the trip?\n" +
	"[12.05.21, 08:17:02] Alice Smith: Long but worth it,\n" +
	"will send photos later\n" +
	"[13.05.21, 19:45:00] Bob: Looking forward to it\n"

func newTestRouter(t *testing.T) http.Handler {
	return newTestRouterMinShare(t, 0)
}

func newTestRouterMinShare(t *testing.T, defaultMinShare float64) http.Handler {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "chatlens.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	coord := pipeline.NewCoordinator(ignore.EmbeddedLoader{}, "en", zap.NewNop())
	coord.Start(context.Background())
	t.Cleanup(coord.Stop)

	return NewRouter(NewHandlers(db, coord, bus.New(), zap.NewNop(), defaultMinShare))
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func uploadSample(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/chats", uploadRequest{
		FileName: "group.txt",
		Content:  sampleExport,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body)
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp.ID
}

func TestUploadChat(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/chats", uploadRequest{
		FileName: "group.txt",
		Content:  sampleExport,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected a chat id")
	}
	if resp.MessageCount != 4 {
		t.Fatalf("MessageCount = %d, want 4", resp.MessageCount)
	}
	if resp.Metadata.Senders["Alice Smith"] != 2 {
		t.Fatalf("Alice Smith count = %d, want 2", resp.Metadata.Senders["Alice Smith"])
	}
	if got := string(resp.Metadata.Dialect); got != "ios" {
		t.Fatalf("dialect = %q, want ios", got)
	}
}

func TestUploadEmptyExport(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/chats", uploadRequest{Content: "  \n\t\n \n"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadNoRecognizedHeaders(t *testing.T) {
	// Non-empty content without a single header line is not an error; the
	// upload is stored with zero retained messages.
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/chats", uploadRequest{Content: "no headers here\n"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MessageCount != 0 {
		t.Fatalf("MessageCount = %d, want 0", resp.MessageCount)
	}
}

func TestUploadInvalidBody(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/chats", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetChatDetail(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/chats/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var detail chatDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.FileName != "group.txt" {
		t.Fatalf("FileName = %q", detail.FileName)
	}
	if detail.Senders["Bob"] != 2 {
		t.Fatalf("Bob count = %d, want 2", detail.Senders["Bob"])
	}
	if detail.SendersShort["Alice Smith"] != "Alice S." {
		t.Fatalf("short name = %q, want Alice S.", detail.SendersShort["Alice Smith"])
	}
}

func TestGetChatNotFound(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/chats/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListChats(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/chats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Chats []chatSummary `json:"chats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Chats) != 1 || resp.Chats[0].ID != id {
		t.Fatalf("chats = %+v, want single entry %s", resp.Chats, id)
	}
	if resp.Chats[0].MessageCount != 4 {
		t.Fatalf("MessageCount = %d, want 4", resp.Chats[0].MessageCount)
	}
}

func TestListMessagesPaging(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/chats/"+id+"/messages?limit=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page messagesPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Messages) != 3 || !page.HasMore || page.NextSeq != 2 {
		t.Fatalf("page = %+v, want 3 messages, hasMore, nextSeq 2", page)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/chats/"+id+"/messages?limit=3&afterSeq=2", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Messages) != 1 || page.HasMore {
		t.Fatalf("second page = %+v, want 1 message, no more", page)
	}
	if page.Messages[0].Sender != "Bob" {
		t.Fatalf("last sender = %q, want Bob", page.Messages[0].Sender)
	}
}

func TestFilterChat(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodPost, "/api/chats/"+id+"/filter", filterRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var result pipeline.FilterResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Messages) != 4 {
		t.Fatalf("retained %d messages, want 4", len(result.Messages))
	}
	for sender, status := range result.NewFilters.SenderStatuses {
		if status != "ACTIVE" {
			t.Fatalf("sender %s status = %s, want ACTIVE", sender, status)
		}
	}
}

func TestFilterChatBySender(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	// Zero threshold locks nobody here; lock Bob manually instead.
	body, _ := json.Marshal(map[string]any{"filters": map[string]any{
		"senderStatuses": map[string]string{"Bob": "MANUAL_INACTIVE"},
	}})
	httpReq := httptest.NewRequest(http.MethodPost, "/api/chats/"+id+"/filter", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httpReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var result pipeline.FilterResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Messages) != 2 {
		t.Fatalf("retained %d messages, want 2", len(result.Messages))
	}
	for _, m := range result.Messages {
		if m.Sender != "Alice Smith" {
			t.Fatalf("unexpected sender %q after manual lock", m.Sender)
		}
	}
}

func TestFilterChatDefaultMinShare(t *testing.T) {
	r := newTestRouterMinShare(t, 60)
	id := uploadSample(t, r)

	// Absent minSharePercent falls back to the configured default of 60%;
	// both senders sit at 50% and get locked.
	rec := doJSON(t, r, http.MethodPost, "/api/chats/"+id+"/filter", filterRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var result pipeline.FilterResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Messages) != 0 {
		t.Fatalf("retained %d messages, want 0", len(result.Messages))
	}
	if result.NewFilters.MinSharePercent != 60 {
		t.Fatalf("MinSharePercent = %v, want default 60", result.NewFilters.MinSharePercent)
	}

	// An explicit zero overrides the default.
	zero := 0.0
	req := filterRequest{}
	req.Filters.MinSharePercent = &zero
	rec = doJSON(t, r, http.MethodPost, "/api/chats/"+id+"/filter", req)
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Messages) != 4 {
		t.Fatalf("retained %d messages with explicit zero, want 4", len(result.Messages))
	}
}

func TestSearchChat(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodGet, "/api/chats/"+id+"/search?q=photos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Results []searchHit `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Message.Sender != "Alice Smith" {
		t.Fatalf("results = %+v, want one hit from Alice Smith", resp.Results)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)
	rec := doJSON(t, r, http.MethodGet, "/api/chats/"+id+"/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteChat(t *testing.T) {
	r := newTestRouter(t)
	id := uploadSample(t, r)

	rec := doJSON(t, r, http.MethodDelete, "/api/chats/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/chats/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, "/api/chats/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
