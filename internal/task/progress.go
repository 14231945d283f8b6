package task

import (
	"context"
	"sync"

	"github.com/raphi011/mrb/internal/log"
)

// Indicator displays the progress of one running task.
type Indicator interface {
	Start()
	UpdateMessage(msg string)
	Stop()
}

// IndicatorFactory creates an indicator for a task title.
type IndicatorFactory func(title string) Indicator

// Progress is handed to every task body. Bodies may report what they are
// doing and poll for cancellation; neither is required.
type Progress struct {
	ctx   context.Context
	title string
	ind   Indicator

	mu   sync.Mutex
	text string
}

// Title returns the task title.
func (p *Progress) Title() string {
	if p == nil {
		return ""
	}
	return p.title
}

type progressKey struct{}

// WithProgress attaches p to ctx.
func WithProgress(ctx context.Context, p *Progress) context.Context {
	return context.WithValue(ctx, progressKey{}, p)
}

// ProgressFromContext returns the progress attached to ctx, or nil.
// All Progress methods are safe on a nil receiver.
func ProgressFromContext(ctx context.Context) *Progress {
	p, _ := ctx.Value(progressKey{}).(*Progress)
	return p
}

// SetText updates the progress message.
func (p *Progress) SetText(text string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
	p.ind.UpdateMessage(p.title + ": " + text)
}

// Text returns the last message set.
func (p *Progress) Text() string {
	if p == nil {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// Suspend stops the indicator while fn runs, so fn can use the terminal,
// and starts it again afterwards.
func (p *Progress) Suspend(fn func() error) error {
	if p == nil {
		return fn()
	}
	p.ind.Stop()
	defer func() {
		p.ind.Start()
		if text := p.Text(); text != "" {
			p.ind.UpdateMessage(p.title + ": " + text)
		}
	}()
	return fn()
}

// Canceled reports whether the task has been asked to stop.
func (p *Progress) Canceled() bool {
	if p == nil {
		return false
	}
	return p.ctx.Err() != nil
}

// LogIndicator reports progress as debug lines on the context logger.
// Used when stderr is not a terminal.
type LogIndicator struct {
	l     *log.Logger
	title string
}

// NewLogIndicatorFactory returns a factory of indicators logging to l.
func NewLogIndicatorFactory(l *log.Logger) IndicatorFactory {
	return func(title string) Indicator {
		return &LogIndicator{l: l, title: title}
	}
}

func (i *LogIndicator) Start() { i.l.Debug("started", "task", i.title) }

func (i *LogIndicator) UpdateMessage(msg string) { i.l.Debug(msg) }

func (i *LogIndicator) Stop() { i.l.Debug("finished", "task", i.title) }

type nopIndicator struct{}

func (nopIndicator) Start()               {}
func (nopIndicator) UpdateMessage(string) {}
func (nopIndicator) Stop()                {}
