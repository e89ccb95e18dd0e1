package dsa

import (
	"context"

	"github.com/beevik/etree"
)

// Caller sends one request document to a named remote service and returns
// the content element of the response body.
type Caller interface {
	Call(ctx context.Context, service string, req *etree.Element) (*etree.Element, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, service string, req *etree.Element) (*etree.Element, error)

func (f CallerFunc) Call(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
	return f(ctx, service, req)
}
