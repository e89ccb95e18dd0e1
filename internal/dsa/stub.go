package dsa

import (
	"context"
	"sync"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Handler answers one service call for a StubCaller.
type Handler func(req *etree.Element) (*etree.Element, error)

// StubCaller is an in-process Caller that routes by service name and keeps
// every request it saw. Used by tests and the offline CLI mode.
type StubCaller struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

type Call struct {
	Service string
	Request *etree.Element
}

var _ Caller = (*StubCaller)(nil)

func NewStubCaller() *StubCaller {
	return &StubCaller{handlers: map[string]Handler{}}
}

func (s *StubCaller) Handle(service string, h Handler) *StubCaller {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[service] = h
	return s
}

// Respond registers a fixed XML response body for service.
func (s *StubCaller) Respond(service, body string) *StubCaller {
	return s.Handle(service, func(*etree.Element) (*etree.Element, error) {
		return Parse(body)
	})
}

func (s *StubCaller) Call(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
	s.mu.Lock()
	var copied *etree.Element
	if req != nil {
		copied = req.Copy()
	}
	s.calls = append(s.calls, Call{Service: service, Request: copied})
	h, ok := s.handlers[service]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ServiceError{Service: service, Code: "404", Message: "no such service"}
	}
	return h(req)
}

func (s *StubCaller) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the requests sent to one service, in call order.
func (s *StubCaller) CallsTo(service string) []*etree.Element {
	var out []*etree.Element
	for _, c := range s.Calls() {
		if c.Service == service {
			out = append(out, c.Request)
		}
	}
	return out
}

// ErrStub is a convenience error for handlers that should fail.
var ErrStub = errors.New("stub failure")
