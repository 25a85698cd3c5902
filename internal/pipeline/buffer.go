package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/crimson-sun/fairnorm/internal/model"
)

// flushFunc processes one buffered batch.
type flushFunc func(ctx context.Context, raws []model.RawRecord) error

// streamBuffer accumulates raw records and hands them to a flushFunc as a
// batch when the window elapses or the buffer fills.
type streamBuffer struct {
	process flushFunc
	window  time.Duration
	maxSize int // 0 means unlimited

	mu      sync.Mutex
	pending []model.RawRecord
	timer   *time.Timer
}

func newStreamBuffer(process flushFunc, window time.Duration, maxSize int) *streamBuffer {
	return &streamBuffer{
		process: process,
		window:  window,
		maxSize: maxSize,
	}
}

// add appends a record. The first record of a batch starts the flush timer.
// Returns true if the buffer is full and needs flushing.
func (b *streamBuffer) add(raw model.RawRecord) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, raw)
	if len(b.pending) == 1 {
		b.timer = time.NewTimer(b.window)
	}
	return b.maxSize > 0 && len(b.pending) >= b.maxSize
}

// flushCh returns the timer's channel, or nil if no timer is active.
func (b *streamBuffer) flushCh() <-chan time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer == nil {
		return nil
	}
	return b.timer.C
}

// flush hands all pending records to the process func.
func (b *streamBuffer) flush(ctx context.Context) error {
	b.mu.Lock()
	raws := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if len(raws) == 0 {
		return nil
	}
	return b.process(ctx, raws)
}
