package testutil

import (
	"context"
	"sync"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/resource"
)

// FakeResponse is one canned transport outcome.
type FakeResponse struct {
	Doc document.Document
	Err error
}

// FakeTransport records every request it receives and replays canned
// responses in order. Once the script runs out it returns empty documents.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeTransport struct {
	mu        sync.Mutex
	responses []FakeResponse
	requests  []resource.PreparedRequest
}

// NewFakeTransport creates a transport that replays responses in order.
func NewFakeTransport(responses ...FakeResponse) *FakeTransport {
	return &FakeTransport{responses: responses}
}

// Respond appends a successful response to the script.
func (f *FakeTransport) Respond(doc document.Document) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, FakeResponse{Doc: doc})
	return f
}

// Fail appends a failing response to the script.
func (f *FakeTransport) Fail(err error) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, FakeResponse{Err: err})
	return f
}

// Do implements resource.Transport.
func (f *FakeTransport) Do(ctx context.Context, req resource.PreparedRequest) (document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.responses) == 0 {
		return document.Document{}, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.Doc, next.Err
}

// Requests returns a copy of every request received so far.
func (f *FakeTransport) Requests() []resource.PreparedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]resource.PreparedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Last returns the most recent request. It panics when none was made.
func (f *FakeTransport) Last() resource.PreparedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}
