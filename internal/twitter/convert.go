package twitter

import (
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/lepinkainen/babble/pkg/tweet"
)

// payload indexes the includes of one response so referenced objects can be
// resolved by id.
type payload struct {
	users  map[string]apiUser
	tweets map[string]apiTweet
	media  map[string]apiMedia
	places map[string]apiPlace
	logger *slog.Logger
}

func newPayload(inc includes, logger *slog.Logger) *payload {
	p := &payload{
		users:  make(map[string]apiUser, len(inc.Users)),
		tweets: make(map[string]apiTweet, len(inc.Tweets)),
		media:  make(map[string]apiMedia, len(inc.Media)),
		places: make(map[string]apiPlace, len(inc.Places)),
		logger: logger,
	}
	for _, u := range inc.Users {
		p.users[u.ID] = u
	}
	for _, t := range inc.Tweets {
		p.tweets[t.ID] = t
	}
	for _, m := range inc.Media {
		p.media[m.MediaKey] = m
	}
	for _, pl := range inc.Places {
		p.places[pl.ID] = pl
	}
	return p
}

// posts converts the top-level tweets, keeping their order.
func (p *payload) posts(data []apiTweet) []*tweet.Post {
	posts := make([]*tweet.Post, 0, len(data))
	for _, t := range data {
		posts = append(posts, p.post(t, true))
	}
	return posts
}

// post converts one tweet. Referenced tweets are resolved only when nest is
// set, so nesting stops at one level.
func (p *payload) post(t apiTweet, nest bool) *tweet.Post {
	post := &tweet.Post{
		ID:        parseID(t.ID),
		Author:    p.user(t.AuthorID),
		CreatedAt: t.CreatedAt,
		Text:      t.Text,
		Counts: tweet.Counts{
			Reshares: t.PublicMetrics.RetweetCount,
			Likes:    t.PublicMetrics.LikeCount,
		},
		Source: sourceLabel(t.Source),
	}

	if place, ok := p.places[t.Geo.PlaceID]; ok {
		post.Location = place.FullName
	}

	for _, u := range t.Entities.URLs {
		if m, ok := p.media[u.MediaKey]; u.MediaKey != "" && ok {
			post.Media = append(post.Media, tweet.MediaEntity{
				ShortURL:   u.URL,
				DisplayURL: u.DisplayURL,
				MediaURL:   mediaURL(m, u),
			})
			continue
		}
		post.Links = append(post.Links, tweet.LinkEntity{
			ShortURL:    u.URL,
			DisplayURL:  u.DisplayURL,
			ExpandedURL: u.ExpandedURL,
		})
	}

	if author, ok := p.users[t.InReplyToUserID]; t.InReplyToUserID != "" && ok {
		post.ReplyToHandle = author.Username
	}

	for _, ref := range t.ReferencedTweets {
		switch ref.Type {
		case refRepliedTo:
			post.ReplyToID = parseID(ref.ID)
		case refRetweeted:
			if nest {
				post.RepostOf = p.referenced(ref.ID)
			}
		case refQuoted:
			if nest {
				post.QuoteOf = p.referenced(ref.ID)
			}
		}
	}

	if err := post.Validate(); err != nil {
		p.logger.Debug("Dropping quote from repost", "id", t.ID, "error", err)
		post.QuoteOf = nil
	}

	return post
}

func (p *payload) referenced(id string) *tweet.Post {
	t, ok := p.tweets[id]
	if !ok {
		p.logger.Debug("Referenced tweet missing from includes", "id", id)
		return nil
	}
	return p.post(t, false)
}

func (p *payload) user(id string) *tweet.User {
	u, ok := p.users[id]
	if !ok {
		return nil
	}
	return &tweet.User{Handle: u.Username, Name: u.Name}
}

// mediaURL picks the direct media URL, the preview image for videos, or the
// expanded link as a last resort.
func mediaURL(m apiMedia, u urlEntity) string {
	switch {
	case m.URL != "":
		return m.URL
	case m.PreviewImageURL != "":
		return m.PreviewImageURL
	default:
		return u.ExpandedURL
	}
}

// sourceLabel returns the text of a client label, which older payloads deliver
// as an HTML anchor.
func sourceLabel(raw string) string {
	if !strings.Contains(raw, "<") {
		return strings.TrimSpace(raw)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func parseID(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
