package render

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lepinkainen/babble/pkg/testutil"
	"github.com/lepinkainen/babble/pkg/tweet"
)

// ansiStyle returns the default palette forced to ANSI colors regardless of the test's stdout.
func ansiStyle() Style {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return DefaultStyleFor(r)
}

func newTestRenderer(style Style, mode Mode) *Renderer {
	r := New(style, mode)
	r.Location = time.UTC
	return r
}

func scenarioPost() *tweet.Post {
	return &tweet.Post{
		ID:        42,
		Author:    &tweet.User{Handle: "alice", Name: "Alice"},
		CreatedAt: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		Text:      "check   #rust out\thttp://x.co/a",
		Counts:    tweet.Counts{Reshares: 2, Likes: 5},
		Links: []tweet.LinkEntity{
			{ShortURL: "http://x.co/a", DisplayURL: "x.co/a", ExpandedURL: "https://example.com/path"},
		},
	}
}

func TestRenderPlainScenario(t *testing.T) {
	st := ansiStyle()
	r := newTestRenderer(st, Plain)

	got := r.Text(scenarioPost())
	want := "check " + st.Decorate(RoleHashtag, "#rust") + " out " + st.Decorate(RoleLink, "https://example.com/path")
	if got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}

	if st.Decorate(RoleHashtag, "#rust") == "#rust" {
		t.Fatal("expected hashtag decoration to change the token")
	}
	if strings.Contains(got, "x.co/a") {
		t.Errorf("short URL should be replaced by the expanded URL, got %q", got)
	}
}

func TestRenderMarkdownScenario(t *testing.T) {
	r := newTestRenderer(NoStyle(), Markdown)

	got := r.Render(scenarioPost())
	if !strings.Contains(got, "[example.com](https://example.com/path)") {
		t.Errorf("markdown output missing link, got %q", got)
	}
	if !strings.Contains(got, "check **#rust** out") {
		t.Errorf("markdown output should bold the hashtag and normalize spacing, got %q", got)
	}
}

func TestRenderMarkdownImage(t *testing.T) {
	p := scenarioPost()
	p.Links[0].ExpandedURL = "https://example.com/cat.png"

	got := newTestRenderer(NoStyle(), Markdown).Text(p)
	if !strings.Contains(got, "![example.com](https://example.com/cat.png)") {
		t.Errorf("expected image reference, got %q", got)
	}
}

func TestRenderUnescapesAmpersand(t *testing.T) {
	p := &tweet.Post{Text: "terms &amp; conditions apply&amp;more"}

	for _, mode := range []Mode{Plain, Markdown} {
		t.Run(mode.String(), func(t *testing.T) {
			got := newTestRenderer(NoStyle(), mode).Text(p)
			if got != "terms & conditions apply&more" {
				t.Errorf("Text() = %q", got)
			}
		})
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	p := scenarioPost()
	p.QuoteOf = &tweet.Post{Author: &tweet.User{Handle: "bob", Name: "Bob"}, Text: "quoted @carol"}

	for _, mode := range []Mode{Plain, Markdown} {
		r := newTestRenderer(ansiStyle(), mode)
		first := r.Render(p)
		second := r.Render(p)
		if first != second {
			t.Errorf("%s: render not idempotent:\n%q\n%q", mode, first, second)
		}
	}
}

func TestRenderRepostIgnoresOwnBody(t *testing.T) {
	original := &tweet.Post{
		Author: &tweet.User{Handle: "bob", Name: "Bob"},
		Text:   "the original http://t.co/x",
		Counts: tweet.Counts{Likes: 9},
		Links:  []tweet.LinkEntity{{ShortURL: "http://t.co/x", ExpandedURL: "https://bob.example/x"}},
	}
	repost := &tweet.Post{
		Author:   &tweet.User{Handle: "alice", Name: "Alice"},
		Text:     "RT @bob: truncated copy http://t.co/own",
		RepostOf: original,
		Links:    []tweet.LinkEntity{{ShortURL: "http://t.co/own", ExpandedURL: "https://own.example"}},
	}

	for _, mode := range []Mode{Plain, Markdown} {
		t.Run(mode.String(), func(t *testing.T) {
			r := newTestRenderer(NoStyle(), mode)
			got := r.Render(repost)

			if !strings.HasSuffix(got, r.Text(original)+"\n") {
				t.Errorf("body should be the reposted text, got %q", got)
			}
			if strings.Contains(got, "truncated copy") || strings.Contains(got, "own.example") {
				t.Errorf("own body leaked into repost rendering: %q", got)
			}
			if !strings.Contains(got, "➜ RT") || !strings.Contains(got, "@bob") {
				t.Errorf("missing repost context line: %q", got)
			}
		})
	}
}

func TestRenderPlainLayout(t *testing.T) {
	p := &tweet.Post{
		Author:        &tweet.User{Handle: "alice", Name: "Alice"},
		CreatedAt:     time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		Text:          "@bob yes",
		Counts:        tweet.Counts{Reshares: 1, Likes: 2},
		Source:        "Twitter for iPhone",
		Location:      "Helsinki, Finland",
		ReplyToHandle: "bob",
	}

	got := newTestRenderer(NoStyle(), Plain).Render(p)
	want := "@alice Alice at 2021-06-01 12:00:00 +00:00 ♺:1 ♥:2 via Twitter for iPhone from Helsinki, Finland\n" +
		"➜ In reply to https://twitter.com/bob/status/0\n" +
		"@bob yes\n"
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderMissingAuthor(t *testing.T) {
	p := &tweet.Post{
		Text:    "hello",
		QuoteOf: &tweet.Post{Text: "quoted"},
	}

	got := newTestRenderer(NoStyle(), Plain).Render(p)
	if !strings.HasPrefix(got, "@ <unknown> at ") {
		t.Errorf("expected placeholder header, got %q", got)
	}
	if !strings.Contains(got, "➜ QT @ <unknown>\nquoted\n") {
		t.Errorf("expected placeholder quote line, got %q", got)
	}
}

func TestRenderNilPost(t *testing.T) {
	if got := Render(nil, DefaultStyle(), Plain); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestRenderMarkdownQuoteGolden(t *testing.T) {
	p := &tweet.Post{
		Author:    &tweet.User{Handle: "alice", Name: "Alice"},
		CreatedAt: time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		Text:      "look at this &amp; that",
		Counts:    tweet.Counts{Reshares: 3, Likes: 10},
		Source:    "Twitter Web App",
		QuoteOf: &tweet.Post{
			Author: &tweet.User{Handle: "bob", Name: "Bob"},
			Text:   "hello #world https://t.co/img",
			Media: []tweet.MediaEntity{
				{ShortURL: "https://t.co/img", DisplayURL: "pic.twitter.com/img", MediaURL: "https://pbs.twimg.com/media/img.jpg"},
			},
		},
	}

	got := newTestRenderer(NoStyle(), Markdown).Render(p)
	testutil.CompareGolden(t, "testdata/quote.md.golden", got)
}
