// Package poller drives the fetch, render and write loop over a paginated feed.
package poller

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/lepinkainen/babble/pkg/tweet"
)

// Cursor marks the newest post already rendered. The zero value means no
// post has been seen yet.
type Cursor string

// Page is one fetch result. Posts are ordered newest first.
type Page struct {
	Posts  []*tweet.Post
	Cursor Cursor
}

// Source fetches the posts strictly newer than cursor, at most pageSize of them.
// An empty cursor asks for the most recent page.
type Source interface {
	Fetch(ctx context.Context, cursor Cursor, pageSize int) (Page, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, cursor Cursor, pageSize int) (Page, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context, cursor Cursor, pageSize int) (Page, error) {
	return f(ctx, cursor, pageSize)
}

// Sink receives one rendered post per call.
type Sink interface {
	WriteLine(s string) error
}

// WriterSink writes each rendered post to an io.Writer followed by a newline.
// It is safe to share between pollers; posts never interleave.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a new WriterSink
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteLine writes s and a terminating newline in a single write.
func (s *WriterSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write rendered post: %w", err)
	}
	return nil
}
