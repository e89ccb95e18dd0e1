package dsa

import (
	"context"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"shschool-data/internal/logger"
)

// Retrying re-issues calls that fail with a transient fault. Service errors
// and request errors are returned immediately.
type Retrying struct {
	Caller   Caller
	Attempts int
	Backoff  time.Duration
	Log      *zap.Logger
}

var _ Caller = (*Retrying)(nil)

func WithRetry(c Caller, attempts int, backoff time.Duration, log *zap.Logger) *Retrying {
	return &Retrying{Caller: c, Attempts: attempts, Backoff: backoff, Log: log}
}

func (r *Retrying) Call(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	log := logger.OrNop(r.Log)

	var err error
	for i := 1; i <= attempts; i++ {
		var resp *etree.Element
		resp, err = r.Caller.Call(ctx, service, req)
		if err == nil || !IsTransient(err) || i == attempts {
			return resp, err
		}

		log.Warn("retrying service call",
			zap.String("service", service),
			zap.Int("attempt", i),
			zap.Error(err))

		wait := r.Backoff * time.Duration(i)
		if wait <= 0 {
			continue
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}
