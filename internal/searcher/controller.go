package searcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docgrip/internal/domain"
	"docgrip/internal/eventbus"
)

// Searcher runs one search against the index server
type Searcher interface {
	Search(ctx context.Context, query string) (domain.ResultSet, error)
}

// Sink receives the visible effects of a search. All calls are made from the
// controller goroutine, one at a time, in the order they happen.
type Sink interface {
	// Clear empties the results area when a search is issued
	Clear(seq uint64, query string)
	// Render replaces the results area with the outcome's results
	Render(outcome domain.Outcome)
	// Fail reports a search that ended in an error
	Fail(outcome domain.Outcome)
	// Discard reports a response that was superseded by a newer search
	Discard(outcome domain.Outcome)
}

// Mode selects when the next queued search may be issued
type Mode int

const (
	// SerializeIssue issues searches one after another in submission order.
	// Responses may overlap; only the latest one is rendered.
	SerializeIssue Mode = iota
	// SerializeCompletion waits for each search to finish before the next
	// one is issued.
	SerializeCompletion
)

func (m Mode) String() string {
	switch m {
	case SerializeIssue:
		return "issue"
	case SerializeCompletion:
		return "completion"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config value to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "issue":
		return SerializeIssue, nil
	case "completion":
		return SerializeCompletion, nil
	default:
		return SerializeIssue, fmt.Errorf("unknown serialize mode %q", s)
	}
}

// Options configures a Controller
type Options struct {
	Serialize Mode
	// DiscardStale drops responses for anything but the latest issued
	// search. With it off, whichever response arrives last is rendered.
	DiscardStale bool
	// CancelStale cancels in-flight searches once a newer one is waiting
	CancelStale bool
	// Timeout bounds each search; 0 disables it
	Timeout time.Duration

	Bus          eventbus.EventBus
	Logger       zerolog.Logger
	NewRequestID func() string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Serialize:    SerializeIssue,
		DiscardStale: true,
		CancelStale:  true,
		Logger:       zerolog.Nop(),
	}
}

type job struct {
	seq       uint64
	query     string
	submitted time.Time
}

type flight struct {
	job
	requestID  string
	started    time.Time
	cancel     context.CancelFunc
	superseded bool
}

type result struct {
	seq     uint64
	results domain.ResultSet
	err     error
}

// Controller owns the search queue. Submitted queries are numbered and
// issued by a single goroutine in submission order.
type Controller struct {
	searcher Searcher
	sink     Sink
	opts     Options
	log      zerolog.Logger

	mu     sync.Mutex
	queue  []job
	seq    uint64
	closed bool

	latest atomic.Uint64

	wake    chan struct{}
	issued  chan uint64
	results chan result
	quit    chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New starts a controller that runs searches with s and reports to sink
func New(s Searcher, sink Sink, opts Options) *Controller {
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}

	c := &Controller{
		searcher: s,
		sink:     sink,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "searcher").Logger(),
		wake:     make(chan struct{}, 1),
		issued:   make(chan uint64),
		results:  make(chan result),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go c.run()
	return c
}

// Submit queues query and returns its sequence number. The query is used
// exactly as given, including empty or whitespace-only text. Submit never
// blocks; it returns 0 once the controller is closed.
func (c *Controller) Submit(query string) uint64 {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.seq++
	j := job{seq: c.seq, query: query, submitted: time.Now()}
	c.queue = append(c.queue, j)
	c.mu.Unlock()

	c.log.Debug().Uint64("seq", j.seq).Str("query", query).Msg("Search submitted")
	c.publish(eventbus.SearchSubmittedEvent{Seq: j.seq, Query: query, At: j.submitted})

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return j.seq
}

// Latest returns the sequence number of the most recently issued search
func (c *Controller) Latest() uint64 {
	return c.latest.Load()
}

// Pending returns the number of searches waiting to be issued
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Close cancels in-flight searches and stops the controller. Queued searches
// that were never issued are dropped.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.queue = nil
		c.mu.Unlock()
		close(c.quit)
	})
	<-c.done
	c.wg.Wait()
}

func (c *Controller) dequeue() (job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return job{}, false
	}
	j := c.queue[0]
	c.queue[0] = job{}
	c.queue = c.queue[1:]
	return j, true
}

func (c *Controller) run() {
	defer close(c.done)

	inflight := make(map[uint64]*flight)
	// awaiting is the search whose request has not been written yet; the
	// next one waits so requests reach the server in submission order
	var awaiting uint64

	for {
		if c.opts.CancelStale && len(inflight) > 0 && c.Pending() > 0 {
			c.supersede(inflight, awaiting)
		}

		ready := awaiting == 0
		if c.opts.Serialize == SerializeCompletion {
			ready = len(inflight) == 0
		}
		if ready {
			if j, ok := c.dequeue(); ok {
				f := c.issue(j)
				inflight[j.seq] = f
				awaiting = j.seq
				continue
			}
		}

		select {
		case <-c.wake:
		case seq := <-c.issued:
			if seq == awaiting {
				awaiting = 0
			}
		case res := <-c.results:
			if res.seq == awaiting {
				awaiting = 0
			}
			f, ok := inflight[res.seq]
			if !ok {
				continue
			}
			delete(inflight, res.seq)
			c.finish(f, res)
		case <-c.quit:
			for _, f := range inflight {
				f.cancel()
			}
			return
		}
	}
}

// supersede cancels every in-flight search whose request has been written;
// all of them are older than anything still queued. The unwritten one is
// left alone so every submitted query still reaches the server.
func (c *Controller) supersede(inflight map[uint64]*flight, awaiting uint64) {
	for _, f := range inflight {
		if f.superseded || f.seq == awaiting {
			continue
		}
		f.superseded = true
		f.cancel()
		c.log.Debug().Uint64("seq", f.seq).Str("request_id", f.requestID).Msg("Cancelling superseded search")
	}
}

func (c *Controller) issue(j job) *flight {
	ctx, cancel := context.WithCancel(context.Background())
	stop := cancel
	if c.opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, c.opts.Timeout)
		stop = func() {
			cancelTimeout()
			cancel()
		}
	}

	f := &flight{
		job:       j,
		requestID: c.opts.NewRequestID(),
		started:   time.Now(),
		cancel:    stop,
	}

	ctx = domain.WithRequestID(ctx, f.requestID)
	ctx = domain.WithIssueNotifier(ctx, func() {
		select {
		case c.issued <- j.seq:
		case <-c.quit:
		}
	})

	c.latest.Store(j.seq)
	c.sink.Clear(j.seq, j.query)

	c.log.Info().
		Uint64("seq", j.seq).
		Str("request_id", f.requestID).
		Str("query", j.query).
		Dur("queued", f.started.Sub(j.submitted)).
		Msg("Issuing search")
	c.publish(eventbus.SearchIssuedEvent{Seq: j.seq, Query: j.query, RequestID: f.requestID})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		results, err := c.searcher.Search(ctx, j.query)
		// Release a caller waiting on the write even if the searcher never
		// signalled it
		domain.NotifyIssued(ctx)
		select {
		case c.results <- result{seq: j.seq, results: results, err: err}:
		case <-c.quit:
		}
	}()

	return f
}

func (c *Controller) finish(f *flight, res result) {
	f.cancel()

	latest := c.latest.Load()
	outcome := domain.Outcome{
		Seq:       f.seq,
		Query:     f.query,
		RequestID: f.requestID,
		Results:   res.results,
		Err:       res.err,
		Duration:  time.Since(f.started),
	}

	logger := c.log.With().
		Uint64("seq", f.seq).
		Str("request_id", f.requestID).
		Dur("duration", outcome.Duration).
		Logger()

	switch {
	case f.superseded || (c.opts.DiscardStale && f.seq != latest):
		outcome.Stale = true
		outcome.Results = nil
		logger.Debug().Str("outcome", "stale").Uint64("latest", latest).AnErr("error", res.err).Msg("Discarding stale response")
		c.sink.Discard(outcome)
		c.publish(eventbus.SearchDiscardedEvent{Seq: f.seq, Query: f.query, Latest: latest})

	case res.err != nil:
		logger.Error().Str("outcome", "failed").Err(res.err).Int("query_len", len(f.query)).Msg("Search failed")
		c.sink.Fail(outcome)
		c.publish(eventbus.SearchFailedEvent{Seq: f.seq, Query: f.query, Err: res.err})

	default:
		if outcome.Results == nil {
			outcome.Results = domain.ResultSet{}
		}
		logger.Info().Str("outcome", "ok").Int("results", len(outcome.Results)).Msg("Search completed")
		c.sink.Render(outcome)
		c.publish(eventbus.SearchCompletedEvent{
			Seq:      f.seq,
			Query:    f.query,
			Count:    len(outcome.Results),
			Duration: outcome.Duration,
		})
	}
}

func (c *Controller) publish(e eventbus.DomainEvent) {
	if c.opts.Bus != nil {
		c.opts.Bus.Publish(e)
	}
}
