package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheus3301/chatlens/internal/bus"
	"github.com/matheus3301/chatlens/internal/chatlog"
	"github.com/matheus3301/chatlens/internal/ignore"
	"github.com/matheus3301/chatlens/internal/pipeline"
	"github.com/matheus3301/chatlens/internal/store"
)

// maxUploadBytes caps a single export upload. Multi-year group chats stay
// well under this.
const maxUploadBytes = 64 << 20

const (
	defaultPageSize = 200
	maxPageSize     = 1000
)

// Handlers holds the shared state behind the dashboard routes.
type Handlers struct {
	db              *store.DB
	coord           *pipeline.Coordinator
	bus             *bus.Bus
	log             *zap.Logger
	defaultMinShare float64
}

func NewHandlers(db *store.DB, coord *pipeline.Coordinator, b *bus.Bus, log *zap.Logger, defaultMinShare float64) *Handlers {
	return &Handlers{db: db, coord: coord, bus: b, log: log.Named("httpapi"), defaultMinShare: defaultMinShare}
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) uploadChat(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		req.FileName = "chat.txt"
	}

	result, err := h.coord.Parse(r.Context(), req.Content, req.FileName)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	id := uuid.NewString()
	chat, msgs, senders := toRows(id, result)
	if err := h.db.InsertChat(chat, msgs, senders); err != nil {
		h.log.Error("insert chat", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store chat")
		return
	}

	h.bus.Publish(bus.NewEvent("chat.parsed", map[string]any{
		"id":       id,
		"fileName": req.FileName,
		"messages": len(result.Messages),
	}))
	respondJSON(w, http.StatusCreated, uploadResponse{
		ID:           id,
		MessageCount: len(result.Messages),
		Metadata:     result.Metadata,
	})
}

func (h *Handlers) listChats(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, maxPageSize)
	offset := queryInt(r, "offset", 0, 1<<30)

	chats, err := h.db.ListChats(limit, offset)
	if err != nil {
		h.log.Error("list chats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}
	out := make([]chatSummary, 0, len(chats))
	for _, c := range chats {
		out = append(out, summarize(c))
	}
	respondJSON(w, http.StatusOK, map[string]any{"chats": out})
}

func (h *Handlers) getChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.loadChat(w, r)
	if !ok {
		return
	}
	senders, err := h.db.ListSenders(chat.ID)
	if err != nil {
		h.log.Error("list senders", zap.Error(err), zap.String("chat", chat.ID))
		respondError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}

	detail := chatDetail{
		chatSummary:  summarize(*chat),
		Senders:      make(map[string]int, len(senders)),
		SendersShort: make(map[string]string, len(senders)),
	}
	for _, s := range senders {
		detail.Senders[s.Name] = s.MessageCount
		detail.SendersShort[s.Name] = s.ShortName
	}
	respondJSON(w, http.StatusOK, detail)
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.loadChat(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", defaultPageSize, maxPageSize)
	afterSeq := queryInt(r, "afterSeq", -1, 1<<30)

	// Fetch one extra row to decide hasMore without a count query.
	rows, err := h.db.ListMessages(chat.ID, afterSeq, limit+1)
	if err != nil {
		h.log.Error("list messages", zap.Error(err), zap.String("chat", chat.ID))
		respondError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	page := messagesPage{HasMore: len(rows) > limit, NextSeq: afterSeq}
	if page.HasMore {
		rows = rows[:limit]
	}
	page.Messages = fromRows(rows)
	if len(rows) > 0 {
		page.NextSeq = rows[len(rows)-1].Seq
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handlers) filterChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.loadChat(w, r)
	if !ok {
		return
	}
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	opts := req.Filters.resolve(h.defaultMinShare)

	rows, err := h.db.AllMessages(chat.ID)
	if err != nil {
		h.log.Error("load messages", zap.Error(err), zap.String("chat", chat.ID))
		respondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	result, err := h.coord.Filter(r.Context(), fromRows(rows), opts, req.LastAppliedMinShare)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	h.bus.Publish(bus.NewEvent("filter.applied", map[string]any{
		"id":       chat.ID,
		"retained": len(result.Messages),
	}))
	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) searchChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.loadChat(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit := queryInt(r, "limit", 50, maxPageSize)

	results, err := h.db.SearchMessages(chat.ID, query, limit)
	if err != nil {
		h.log.Error("search messages", zap.Error(err), zap.String("chat", chat.ID))
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	hits := make([]searchHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, searchHit{Message: fromRow(res.Message), Snippet: res.Snippet})
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func (h *Handlers) deleteChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chatID")
	deleted, err := h.db.DeleteChat(id)
	if err != nil {
		h.log.Error("delete chat", zap.Error(err), zap.String("chat", id))
		respondError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "chat not found")
		return
	}
	h.bus.Publish(bus.NewEvent("chat.deleted", map[string]any{"id": id}))
	w.WriteHeader(http.StatusNoContent)
}

// loadChat resolves the {chatID} route parameter and writes the 404 itself
// when the chat does not exist.
func (h *Handlers) loadChat(w http.ResponseWriter, r *http.Request) (*store.Chat, bool) {
	id := chi.URLParam(r, "chatID")
	chat, err := h.db.GetChat(id)
	if err != nil {
		h.log.Error("get chat", zap.Error(err), zap.String("chat", id))
		respondError(w, http.StatusInternalServerError, "failed to load chat")
		return nil, false
	}
	if chat == nil {
		respondError(w, http.StatusNotFound, "chat not found")
		return nil, false
	}
	return chat, true
}

func (h *Handlers) respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatlog.ErrEmptyExport):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ignore.ErrNotFound):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pipeline.ErrStale):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, pipeline.ErrStopped):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("pipeline request", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string, def, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n > max {
		return max
	}
	return n
}
