// Package tweet provides the post model shared by the renderer, the poller and the feed client.
package tweet

import (
	"errors"
	"time"
)

// ErrRepostAndQuote is reported by Validate when a post is both a repost and a quote.
var ErrRepostAndQuote = errors.New("post sets both repost and quote")

// User identifies the author of a post.
type User struct {
	Handle string // screen name without the leading @
	Name   string // display name
}

// Counts holds engagement counters.
type Counts struct {
	Reshares int
	Likes    int
}

// LinkEntity describes a link token in the post text.
// The token matches either ShortURL or DisplayURL literally.
type LinkEntity struct {
	ShortURL    string
	DisplayURL  string
	ExpandedURL string
}

// MediaEntity describes an attached media token in the post text.
type MediaEntity struct {
	ShortURL   string
	DisplayURL string
	MediaURL   string
}

// Post is a single feed item as delivered by the feed client.
type Post struct {
	ID        uint64
	Author    *User // nil when the source did not include the author
	CreatedAt time.Time
	Text      string
	Counts    Counts

	Source   string // client label ("via X"), optional
	Location string // place label ("from Y"), optional

	ReplyToHandle string
	ReplyToID     uint64 // zero when unknown

	RepostOf *Post
	QuoteOf  *Post

	Links []LinkEntity
	Media []MediaEntity
}

// Handle returns the author's handle, or an empty string when the author is absent.
func (p *Post) Handle() string {
	if p == nil || p.Author == nil {
		return ""
	}
	return p.Author.Handle
}

// AuthorName returns the author's display name, or the given placeholder when absent.
func (p *Post) AuthorName(placeholder string) string {
	if p == nil || p.Author == nil {
		return placeholder
	}
	return p.Author.Name
}

// IsReply reports whether the post is a reply without repost or quote context.
func (p *Post) IsReply() bool {
	return p.ReplyToHandle != "" && p.RepostOf == nil && p.QuoteOf == nil
}

// Validate checks the structural invariants of the post and its nested posts.
func (p *Post) Validate() error {
	if p.RepostOf != nil && p.QuoteOf != nil {
		return ErrRepostAndQuote
	}
	if p.RepostOf != nil {
		if err := p.RepostOf.Validate(); err != nil {
			return err
		}
	}
	if p.QuoteOf != nil {
		if err := p.QuoteOf.Validate(); err != nil {
			return err
		}
	}
	return nil
}
