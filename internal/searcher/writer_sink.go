package searcher

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"docgrip/internal/domain"
)

// WriterSink prints rendered results one path per line. It backs the
// non-interactive -q mode.
type WriterSink struct {
	Out      io.Writer
	Err      io.Writer
	ShowRank bool
}

func (s *WriterSink) Clear(uint64, string) {}

func (s *WriterSink) Render(outcome domain.Outcome) {
	for _, item := range outcome.Results {
		if s.ShowRank {
			fmt.Fprintf(s.Out, "%s\t%s\n", domain.DisplayPath(item.Path), strconv.FormatFloat(item.Rank, 'g', -1, 64))
			continue
		}
		fmt.Fprintln(s.Out, domain.DisplayPath(item.Path))
	}
}

func (s *WriterSink) Fail(outcome domain.Outcome) {
	if s.Err != nil {
		fmt.Fprintf(s.Err, "search %q failed: %v\n", outcome.Query, outcome.Err)
	}
}

func (s *WriterSink) Discard(domain.Outcome) {}

// doneSink forwards to another sink and reports the first terminal outcome
type doneSink struct {
	Sink
	done chan domain.Outcome
}

func (s doneSink) Render(outcome domain.Outcome) {
	s.Sink.Render(outcome)
	s.report(outcome)
}

func (s doneSink) Fail(outcome domain.Outcome) {
	s.Sink.Fail(outcome)
	s.report(outcome)
}

func (s doneSink) Discard(outcome domain.Outcome) {
	s.Sink.Discard(outcome)
	s.report(outcome)
}

func (s doneSink) report(outcome domain.Outcome) {
	select {
	case s.done <- outcome:
	default:
	}
}

// RunOnce runs a single search through a fresh controller and waits for its
// outcome. It returns early with ctx's error if ctx ends first.
func RunOnce(ctx context.Context, s Searcher, sink Sink, query string, opts Options) (domain.Outcome, error) {
	done := make(chan domain.Outcome, 1)
	c := New(s, doneSink{Sink: sink, done: done}, opts)
	defer c.Close()

	seq := c.Submit(query)
	select {
	case outcome := <-done:
		return outcome, outcome.Err
	case <-ctx.Done():
		return domain.Outcome{Seq: seq, Query: query, Err: ctx.Err()}, ctx.Err()
	}
}
