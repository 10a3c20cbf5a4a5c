package memory

import (
	"context"
	"sync"

	"github.com/mbressan/identity-service/internal/application/account"
)

// NoopPublisher drops every mail event. Used in dev when the broker is down.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishConfirmMail(ctx context.Context, evt account.ConfirmMailEvent) error {
	return nil
}

func (NoopPublisher) PublishResetMail(ctx context.Context, evt account.ResetMailEvent) error {
	return nil
}

// CapturePublisher records mail events so tests can pull the links back out.
type CapturePublisher struct {
	mu       sync.Mutex
	Confirms []account.ConfirmMailEvent
	Resets   []account.ResetMailEvent
}

func NewCapturePublisher() *CapturePublisher { return &CapturePublisher{} }

func (p *CapturePublisher) PublishConfirmMail(ctx context.Context, evt account.ConfirmMailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Confirms = append(p.Confirms, evt)
	return nil
}

func (p *CapturePublisher) PublishResetMail(ctx context.Context, evt account.ResetMailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Resets = append(p.Resets, evt)
	return nil
}

// LastConfirm returns the most recent confirmation event, if any.
func (p *CapturePublisher) LastConfirm() (account.ConfirmMailEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Confirms) == 0 {
		return account.ConfirmMailEvent{}, false
	}
	return p.Confirms[len(p.Confirms)-1], true
}

// LastReset returns the most recent reset event, if any.
func (p *CapturePublisher) LastReset() (account.ResetMailEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Resets) == 0 {
		return account.ResetMailEvent{}, false
	}
	return p.Resets[len(p.Resets)-1], true
}
