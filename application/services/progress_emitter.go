package services

import (
	"context"
	"short-video-agent/domain"
	"sync"
)

// ProgressEmitter is the single-producer event stream handed to the caller.
// Events are delivered in emission order and the channel is closed exactly
// once, right after the first terminal event.
type ProgressEmitter struct {
	ctx    context.Context
	out    chan domain.ProgressEvent
	mu     sync.Mutex
	closed bool
}

func NewProgressEmitter(ctx context.Context, buffer int) *ProgressEmitter {
	return &ProgressEmitter{
		ctx: ctx,
		out: make(chan domain.ProgressEvent, buffer),
	}
}

func (e *ProgressEmitter) Events() <-chan domain.ProgressEvent {
	return e.out
}

// Emit reports false once the stream is closed or the consumer went away.
func (e *ProgressEmitter) Emit(event domain.ProgressEvent) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	if event.Terminal() {
		e.send(event)
		e.close()
		return true
	}
	return e.send(event)
}

func (e *ProgressEmitter) Step(step string, message string) bool {
	return e.Emit(domain.ProgressEvent{Step: step, Message: message})
}

func (e *ProgressEmitter) Complete(message string) {
	e.Emit(domain.ProgressEvent{Step: domain.StepCompleted, Message: message})
}

func (e *ProgressEmitter) Fail(err error) {
	e.Emit(domain.ProgressEvent{Step: domain.StepFailed, Message: err.Error()})
}

func (e *ProgressEmitter) send(event domain.ProgressEvent) bool {
	select {
	case e.out <- event:
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e *ProgressEmitter) close() {
	e.closed = true
	close(e.out)
}
