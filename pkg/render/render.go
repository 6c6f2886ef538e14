// Package render turns posts into decorated terminal text or Markdown.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/babble/pkg/tweet"
)

// Mode selects the output format.
type Mode int

// Output modes
const (
	Plain Mode = iota
	Markdown
)

// ModeFromFlag maps a --markdown style flag to a Mode.
func ModeFromFlag(markdown bool) Mode {
	if markdown {
		return Markdown
	}
	return Plain
}

func (m Mode) String() string {
	if m == Markdown {
		return "markdown"
	}
	return "plain"
}

const (
	// UnknownAuthor is shown when a post carries no author.
	UnknownAuthor = "<unknown>"
	// PermalinkHost is the host used for profile and status links.
	PermalinkHost = "twitter.com"
	// TimeLayout formats post timestamps.
	TimeLayout = "2006-01-02 15:04:05 -07:00"

	reshareGlyph = "♺"
	likeGlyph    = "♥"
)

// Renderer formats posts. The zero value renders plain, undecorated text in local time.
type Renderer struct {
	Style    Style
	Mode     Mode
	Location *time.Location
}

// New creates a renderer for the given style and mode.
func New(style Style, mode Mode) *Renderer {
	return &Renderer{Style: style, Mode: mode, Location: time.Local}
}

// Render formats a post with a one-off renderer.
func Render(p *tweet.Post, style Style, mode Mode) string {
	return New(style, mode).Render(p)
}

// Render formats p as header, meta, context and body. It never fails; missing
// optional fields render as empty text or placeholders.
func (r *Renderer) Render(p *tweet.Post) string {
	if p == nil {
		return ""
	}
	if r.Mode == Markdown {
		return r.markdownPost(p)
	}
	return r.plainPost(p)
}

// Text renders only the body text of p with its own entities.
func (r *Renderer) Text(p *tweet.Post) string {
	if p == nil {
		return ""
	}
	spans := Tokenize(p.Text, p.Links, p.Media)
	if r.Mode == Markdown {
		return markdownText(spans)
	}
	return plainText(spans, r.Style)
}

func (r *Renderer) timestamp(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

func permalink(handle string, id uint64) string {
	return fmt.Sprintf("https://%s/%s/status/%d", PermalinkHost, handle, id)
}

func (r *Renderer) plainPost(p *tweet.Post) string {
	st := r.Style
	var b strings.Builder

	fmt.Fprintf(&b, "@%s %s at %s ",
		st.Decorate(RoleAuthor, p.Handle()),
		p.AuthorName(UnknownAuthor),
		st.Decorate(RoleTimestamp, r.timestamp(p.CreatedAt)))

	fmt.Fprintf(&b, "%s:%d %s:%d",
		st.Decorate(RoleMeta, reshareGlyph), p.Counts.Reshares,
		st.Decorate(RoleMeta, likeGlyph), p.Counts.Likes)
	if p.Source != "" {
		b.WriteString(" via " + p.Source)
	}
	if p.Location != "" {
		b.WriteString(" from " + p.Location)
	}
	b.WriteString("\n")

	switch {
	case p.RepostOf != nil:
		rt := p.RepostOf
		fmt.Fprintf(&b, "%s @%s %s %s:%d\n",
			st.Decorate(RoleMeta, "➜ RT"),
			st.Decorate(RoleAuthor, rt.Handle()),
			rt.AuthorName(UnknownAuthor),
			st.Decorate(RoleMeta, likeGlyph), rt.Counts.Likes)
	case p.ReplyToHandle != "":
		fmt.Fprintf(&b, "%s %s\n",
			st.Decorate(RoleMeta, "➜ In reply to"),
			st.Decorate(RoleLink, permalink(p.ReplyToHandle, p.ReplyToID)))
	}

	switch {
	case p.RepostOf != nil:
		b.WriteString(r.Text(p.RepostOf) + "\n")
	case p.QuoteOf != nil:
		qt := p.QuoteOf
		b.WriteString(r.Text(p) + "\n")
		b.WriteString("--\n")
		fmt.Fprintf(&b, "%s @%s %s\n",
			st.Decorate(RoleMeta, "➜ QT"),
			st.Decorate(RoleAuthor, qt.Handle()),
			qt.AuthorName(UnknownAuthor))
		b.WriteString(r.Text(qt) + "\n")
	default:
		b.WriteString(r.Text(p) + "\n")
	}

	return b.String()
}

func (r *Renderer) markdownPost(p *tweet.Post) string {
	var b strings.Builder
	handle := p.Handle()

	fmt.Fprintf(&b, "### **[@%s](https://%s/%s)** %s at %s ",
		handle, PermalinkHost, handle,
		p.AuthorName(UnknownAuthor),
		r.timestamp(p.CreatedAt))

	fmt.Fprintf(&b, "%s:%d %s:%d", reshareGlyph, p.Counts.Reshares, likeGlyph, p.Counts.Likes)
	if p.Source != "" {
		b.WriteString(" _via " + p.Source + "_")
	}
	if p.Location != "" {
		b.WriteString(" from " + p.Location)
	}
	b.WriteString("\n")

	switch {
	case p.RepostOf != nil:
		rt := p.RepostOf
		fmt.Fprintf(&b, "➜ RT **@%s** %s %s:%d\n",
			rt.Handle(), rt.AuthorName(UnknownAuthor), likeGlyph, rt.Counts.Likes)
	case p.ReplyToHandle != "":
		fmt.Fprintf(&b, "➜ In reply to [tweet by @%s](%s)\n",
			p.ReplyToHandle, permalink(p.ReplyToHandle, p.ReplyToID))
	}

	switch {
	case p.RepostOf != nil:
		b.WriteString(r.Text(p.RepostOf) + "\n")
	case p.QuoteOf != nil:
		qt := p.QuoteOf
		b.WriteString(r.Text(p) + "\n")
		b.WriteString("--\n")
		fmt.Fprintf(&b, "➜ QT @%s **%s**\n", qt.Handle(), qt.AuthorName(UnknownAuthor))
		b.WriteString(r.Text(qt) + "\n")
	default:
		b.WriteString(r.Text(p) + "\n")
	}

	return b.String()
}

// plainText projects spans to terminal text, coloring mentions, hashtags and links.
func plainText(spans []Span, st Style) string {
	words := make([]string, len(spans))
	for i, span := range spans {
		switch span.Kind {
		case SpanMention:
			words[i] = st.Decorate(RoleAuthor, span.Text)
		case SpanHashtag:
			words[i] = st.Decorate(RoleHashtag, span.Text)
		case SpanLink, SpanMedia:
			words[i] = st.Decorate(RoleLink, span.Target)
		default:
			words[i] = span.Text
		}
	}
	return strings.Join(words, " ")
}

// markdownText projects spans to Markdown. Mentions and hashtags are both bolded.
func markdownText(spans []Span) string {
	words := make([]string, len(spans))
	for i, span := range spans {
		switch span.Kind {
		case SpanMention, SpanHashtag:
			words[i] = "**" + span.Text + "**"
		case SpanLink:
			words[i] = "[" + span.Display + "](" + span.Target + ")"
		case SpanMedia:
			link := "[" + span.Display + "](" + span.Target + ")"
			if span.IsImage {
				link = "!" + link
			}
			words[i] = link
		default:
			words[i] = span.Text
		}
	}
	return strings.Join(words, " ")
}

// CountLabel formats a count compactly for list views.
func CountLabel(n int) string {
	if n >= 1000 {
		return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "k"
	}
	return strconv.Itoa(n)
}
