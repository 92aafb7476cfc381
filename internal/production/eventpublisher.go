package production

import (
	"context"

	"github.com/comalice/markupx/render"
)

// ChannelPublisher is a stdlib-only render.EventPublisher that forwards scope
// events to a Go channel. Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- render.ScopeEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- render.ScopeEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, ev render.ScopeEvent) error {
	select {
	case p.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
