package render

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/lepinkainen/babble/pkg/tweet"
)

// SpanKind identifies what a token of post text represents.
type SpanKind int

// Span kinds
const (
	SpanLiteral SpanKind = iota
	SpanMention
	SpanHashtag
	SpanLink
	SpanMedia
)

// Span is one whitespace-delimited token of post text after entity resolution.
type Span struct {
	Kind SpanKind
	// Text is the token as written, or the unescaped token for literals.
	Text string
	// Display is the host label of a link or media target.
	Display string
	// Target is the resolved URL of a link or media token.
	Target  string
	IsImage bool
}

// urlPattern splits a URL into its structural parts. Only the host group is used.
var urlPattern = regexp.MustCompile(`(?i)^` +
	`(?P<protocol>[a-z][a-z0-9+\-.]*://)` +
	`(?P<user>[a-z0-9\-._~%!$&'()*+,;=]+@)?` +
	`(?P<host>[a-z0-9\-._~%]+|\[[a-f0-9:.]+\])` +
	`(?P<port>:[0-9]+)?` +
	`(?P<path>/[a-z0-9\-._~%!$&'()*+,;=:@]+)*/?` +
	`(?P<query>\?[a-z0-9\-._~%!$&'()*+,;=:@/?]*)?` +
	`(?P<fragment>#[a-z0-9\-._~%!$&'()*+,;=:@/?]*)?` +
	`$`)

var imageSuffixes = []string{".jpg", ".jpeg", ".gif", ".png"}

// Tokenize splits text on whitespace and classifies each token, resolving
// link tokens against the link entities first and the media entities second.
func Tokenize(text string, links []tweet.LinkEntity, media []tweet.MediaEntity) []Span {
	words := strings.Fields(text)
	spans := make([]Span, 0, len(words))

	for _, word := range words {
		switch {
		case strings.HasPrefix(word, "@"):
			spans = append(spans, Span{Kind: SpanMention, Text: word})
		case strings.HasPrefix(word, "#"):
			spans = append(spans, Span{Kind: SpanHashtag, Text: word})
		case strings.HasPrefix(word, "http:") || strings.HasPrefix(word, "https:"):
			spans = append(spans, linkSpan(word, links, media))
		case strings.Contains(word, "&amp;"):
			spans = append(spans, Span{Kind: SpanLiteral, Text: strings.ReplaceAll(word, "&amp;", "&")})
		default:
			spans = append(spans, Span{Kind: SpanLiteral, Text: word})
		}
	}

	return spans
}

func linkSpan(word string, links []tweet.LinkEntity, media []tweet.MediaEntity) Span {
	target, fromMedia := resolveURL(word, links, media)
	image := isImageURL(target)

	kind := SpanLink
	if fromMedia || image {
		kind = SpanMedia
	}

	return Span{
		Kind:    kind,
		Text:    word,
		Display: hostLabel(target),
		Target:  target,
		IsImage: image,
	}
}

// resolveURL finds the target for a link token. Link entities take
// precedence over media entities; an unmatched token is its own target.
func resolveURL(word string, links []tweet.LinkEntity, media []tweet.MediaEntity) (string, bool) {
	for _, link := range links {
		if link.ShortURL == word || link.DisplayURL == word {
			return link.ExpandedURL, false
		}
	}
	for _, m := range media {
		if m.ShortURL == word || m.DisplayURL == word {
			return m.MediaURL, true
		}
	}
	return word, false
}

// hostLabel extracts the host of u, or returns u unchanged when it does not look like a URL.
func hostLabel(u string) string {
	match := urlPattern.FindStringSubmatch(u)
	if match == nil {
		return u
	}
	host := match[urlPattern.SubexpIndex("host")]
	if host == "" {
		return u
	}
	return host
}

func isImageURL(target string) bool {
	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}
	for _, suffix := range imageSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
