package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/chatlens/internal/chatlog"
	"github.com/matheus3301/chatlens/internal/filter"
	"github.com/matheus3301/chatlens/internal/ignore"
	"github.com/matheus3301/chatlens/internal/metrics"
)

// ErrStale is returned when a filter computation finished after a newer
// request for the same data was already submitted. Callers drop the result
// so a slow earlier computation never overwrites a newer one.
var ErrStale = errors.New("filter result superseded by a newer request")

// ErrStopped is returned for requests submitted after Stop.
var ErrStopped = errors.New("pipeline stopped")

// Coordinator owns the background workers running parse and filter
// computations. Requests are passed by value and results returned whole;
// workers share no state with callers.
type Coordinator struct {
	loader       ignore.Loader
	fallbackLang string
	logger       *zap.Logger

	parseCh  chan parseRequest
	filterCh chan filterRequest
	seq      atomic.Uint64

	cancel context.CancelFunc
	done   chan struct{}
}

type parseRequest struct {
	content  string
	fileName string
	reply    chan parseReply
}

type parseReply struct {
	result *ParseResult
	err    error
}

type filterRequest struct {
	seq                 uint64
	messages            []chatlog.Message
	filters             filter.Options
	lastAppliedMinShare float64
	reply               chan filterReply
}

type filterReply struct {
	result FilterResult
	err    error
}

// NewCoordinator creates a coordinator. Start must be called before use.
func NewCoordinator(loader ignore.Loader, fallbackLang string, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		loader:       loader,
		fallbackLang: fallbackLang,
		logger:       logger,
		parseCh:      make(chan parseRequest),
		filterCh:     make(chan filterRequest),
	}
}

// Start launches the parse and filter workers.
func (c *Coordinator) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

// Stop cancels the workers and waits for them to exit.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

func (c *Coordinator) run(ctx context.Context) {
	for {
		select {
		case req := <-c.parseCh:
			start := time.Now()
			result, err := ParseExport(req.content, req.fileName, c.fallbackLang, c.loader)
			dialect := "unknown"
			retained := 0
			if result != nil {
				dialect = string(result.Metadata.Dialect)
				retained = len(result.Messages)
			}
			metrics.ObserveParse(dialect, start, retained, err)
			if err != nil {
				c.logger.Warn("parse failed", zap.String("file", req.fileName), zap.Error(err))
			} else {
				c.logger.Info("parse completed",
					zap.String("file", req.fileName),
					zap.String("dialect", dialect),
					zap.Int("messages", retained),
					zap.Duration("took", time.Since(start)))
			}
			req.reply <- parseReply{result: result, err: err}

		case req := <-c.filterCh:
			start := time.Now()
			result := FilterMessages(req.messages, req.filters, req.lastAppliedMinShare)
			metrics.ObserveFilter(start)
			if req.seq != c.seq.Load() {
				metrics.StaleFilterResults.Inc()
				c.logger.Debug("dropping stale filter result", zap.Uint64("seq", req.seq))
				req.reply <- filterReply{err: ErrStale}
				continue
			}
			req.reply <- filterReply{result: result}

		case <-ctx.Done():
			return
		}
	}
}

// Parse submits a parse request and blocks until the worker replies or ctx
// is done. Errors raised inside the worker come back as values, never as
// panics crossing the boundary.
func (c *Coordinator) Parse(ctx context.Context, content, fileName string) (*ParseResult, error) {
	req := parseRequest{content: content, fileName: fileName, reply: make(chan parseReply, 1)}
	select {
	case c.parseCh <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrStopped
	}
	select {
	case rep := <-req.reply:
		return rep.result, rep.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Filter submits a filter request tagged with the next sequence number. If a
// newer request is submitted before this one finishes, the result is dropped
// and ErrStale returned.
func (c *Coordinator) Filter(ctx context.Context, msgs []chatlog.Message, filters filter.Options, lastAppliedMinShare float64) (FilterResult, error) {
	req := filterRequest{
		seq:                 c.seq.Add(1),
		messages:            msgs,
		filters:             filters,
		lastAppliedMinShare: lastAppliedMinShare,
		reply:               make(chan filterReply, 1),
	}
	select {
	case c.filterCh <- req:
	case <-ctx.Done():
		return FilterResult{}, ctx.Err()
	case <-c.done:
		return FilterResult{}, ErrStopped
	}
	select {
	case rep := <-req.reply:
		return rep.result, rep.err
	case <-ctx.Done():
		return FilterResult{}, ctx.Err()
	}
}
