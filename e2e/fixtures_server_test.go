//go:build e2e && unix

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// searchReply is what the fake server answers for one query
type searchReply struct {
	Status int
	Body   string
	Delay  time.Duration
}

// FakeSearchServer serves /api/search from a table of canned replies and
// records every query body it receives
type FakeSearchServer struct {
	*httptest.Server

	mu      sync.Mutex
	replies map[string]searchReply
	queries []string
}

// NewFakeSearchServer starts a server that answers [] for unknown queries
func NewFakeSearchServer(t *testing.T) *FakeSearchServer {
	t.Helper()
	fs := &FakeSearchServer{replies: make(map[string]searchReply)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/search", fs.handle)
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

// Reply sets the JSON body returned for query
func (fs *FakeSearchServer) Reply(query, body string) {
	fs.set(query, searchReply{Status: http.StatusOK, Body: body})
}

// ReplyAfter answers query with body once delay has passed
func (fs *FakeSearchServer) ReplyAfter(query, body string, delay time.Duration) {
	fs.set(query, searchReply{Status: http.StatusOK, Body: body, Delay: delay})
}

// Fail answers query with an HTTP error
func (fs *FakeSearchServer) Fail(query string, status int, body string) {
	fs.set(query, searchReply{Status: status, Body: body})
}

// Queries returns the request bodies received so far, in arrival order
func (fs *FakeSearchServer) Queries() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.queries...)
}

func (fs *FakeSearchServer) set(query string, r searchReply) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.replies[query] = r
}

func (fs *FakeSearchServer) handle(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	query := string(data)

	fs.mu.Lock()
	fs.queries = append(fs.queries, query)
	reply, ok := fs.replies[query]
	fs.mu.Unlock()

	if !ok {
		reply = searchReply{Status: http.StatusOK, Body: "[]"}
	}
	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}
