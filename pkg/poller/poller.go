package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lepinkainen/babble/pkg/api"
	"github.com/lepinkainen/babble/pkg/render"
)

// Defaults used when the Poller fields are left zero.
const (
	DefaultPageSize = 15
	DefaultInterval = 2 * time.Minute
)

// Errors a Source reports for conditions that end the loop. They are the
// fault classes of the API client, re-exported for callers that only see the poller.
var (
	ErrUnauthorized = api.ErrUnauthorized
	ErrNotFound     = api.ErrNotFound
)

// Poller repeatedly fetches pages from Source, renders new posts oldest first
// and writes them to Sink. A Poller owns its cursor and must not be run concurrently
// with itself.
type Poller struct {
	Source   Source
	Sink     Sink
	Renderer *render.Renderer
	PageSize int
	Interval time.Duration
	Logger   *slog.Logger

	cursor Cursor
}

// New creates a poller with default page size and interval.
func New(source Source, sink Sink, renderer *render.Renderer) *Poller {
	return &Poller{
		Source:   source,
		Sink:     sink,
		Renderer: renderer,
		PageSize: DefaultPageSize,
		Interval: DefaultInterval,
	}
}

// Cursor returns the newest position rendered so far.
func (p *Poller) Cursor() Cursor {
	return p.cursor
}

// Once fetches and renders a single page starting from the current cursor.
func (p *Poller) Once(ctx context.Context) error {
	_, err := p.step(ctx, "initial fetch")
	return err
}

// Run renders the first page, then sleeps Interval and renders anything newer,
// until ctx is cancelled or a fetch fails. Cancellation returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	logger := p.logger()

	if _, err := p.step(ctx, "initial fetch"); err != nil {
		return p.stopErr(ctx, err)
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Polling cancelled", "cursor", p.cursor)
			return ctx.Err()
		case <-timer.C:
		}

		n, err := p.step(ctx, "poll")
		if err != nil {
			return p.stopErr(ctx, err)
		}
		logger.Debug("Polled feed", "new", n, "cursor", p.cursor)

		timer.Reset(interval)
	}
}

// step performs one fetch and renders the result. It returns the number of
// posts written.
func (p *Poller) step(ctx context.Context, phase string) (int, error) {
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	page, err := p.Source.Fetch(ctx, p.cursor, pageSize)
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w", phase, err)
	}
	if len(page.Posts) == 0 {
		return 0, nil
	}

	for _, post := range slices.Backward(page.Posts) {
		if err := p.Sink.WriteLine(p.renderer().Render(post)); err != nil {
			return 0, fmt.Errorf("%s failed: %w", phase, err)
		}
	}

	if page.Cursor != "" {
		p.cursor = page.Cursor
	}
	return len(page.Posts), nil
}

// stopErr prefers the cancellation error when the fetch failed because ctx ended.
func (p *Poller) stopErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	p.logger().Warn("Polling stopped", "cursor", p.cursor, "error", err)
	return err
}

func (p *Poller) renderer() *render.Renderer {
	if p.Renderer == nil {
		p.Renderer = render.New(render.NoStyle(), render.Plain)
	}
	return p.Renderer
}

func (p *Poller) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
