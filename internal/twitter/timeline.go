package twitter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lepinkainen/babble/pkg/poller"
	"github.com/lepinkainen/babble/pkg/tweet"
)

const maxPageSize = 100

// Timeline is a paginated feed of posts. It implements poller.Source.
type Timeline struct {
	client *Client
	name   string
	path   string
	// sinceID is false for endpoints that cannot filter by since_id; those
	// are filtered after the fetch.
	sinceID bool
	// minResults is the smallest max_results the endpoint accepts.
	minResults int
}

var _ poller.Source = (*Timeline)(nil)

// HomeTimeline returns the reverse chronological home timeline of userID.
func (c *Client) HomeTimeline(userID string) *Timeline {
	return &Timeline{
		client:     c,
		name:       "home",
		path:       "/2/users/" + url.PathEscape(userID) + "/timelines/reverse_chronological",
		sinceID:    true,
		minResults: 1,
	}
}

// UserTimeline returns the posts written by userID.
func (c *Client) UserTimeline(userID string) *Timeline {
	return &Timeline{
		client:     c,
		name:       "user",
		path:       "/2/users/" + url.PathEscape(userID) + "/tweets",
		sinceID:    true,
		minResults: 5,
	}
}

// ListTimeline returns the posts of list listID.
func (c *Client) ListTimeline(listID string) *Timeline {
	return &Timeline{
		client:     c,
		name:       "list",
		path:       "/2/lists/" + url.PathEscape(listID) + "/tweets",
		minResults: 1,
	}
}

// Fetch returns up to pageSize posts newer than cursor, newest first. The
// returned cursor is the id of the newest post, or cursor itself when nothing
// new arrived.
func (t *Timeline) Fetch(ctx context.Context, cursor poller.Cursor, pageSize int) (poller.Page, error) {
	query := timelineQuery()
	query.Set("max_results", strconv.Itoa(min(max(pageSize, t.minResults), maxPageSize)))
	if cursor != "" && t.sinceID {
		query.Set("since_id", string(cursor))
	}

	var resp timelineResponse
	if err := t.client.api.GetJSON(ctx, t.path, query, &resp); err != nil {
		return poller.Page{}, fmt.Errorf("failed to fetch %s timeline: %w", t.name, err)
	}
	for _, problem := range resp.Errors {
		t.client.logger.Debug("Partial timeline error", "timeline", t.name, "resource", problem.ResourceID, "detail", problem.Detail)
	}

	posts := newPayload(resp.Includes, t.client.logger).posts(resp.Data)
	posts = newerThan(posts, cursor)
	if pageSize > 0 && len(posts) > pageSize {
		posts = posts[:pageSize]
	}

	page := poller.Page{Posts: posts, Cursor: cursor}
	if newest := newestID(posts); newest != 0 {
		page.Cursor = poller.Cursor(strconv.FormatUint(newest, 10))
	}

	t.client.logger.Debug("Fetched timeline", "timeline", t.name, "count", len(posts), "cursor", page.Cursor)
	return page, nil
}

func timelineQuery() url.Values {
	return url.Values{
		"expansions":   {"author_id,referenced_tweets.id,referenced_tweets.id.author_id,in_reply_to_user_id,attachments.media_keys,geo.place_id"},
		"tweet.fields": {"created_at,public_metrics,entities,referenced_tweets,in_reply_to_user_id,source,geo,attachments"},
		"user.fields":  {"username,name"},
		"media.fields": {"url,preview_image_url,type"},
		"place.fields": {"full_name"},
	}
}

// newerThan drops posts at or below the cursor id.
func newerThan(posts []*tweet.Post, cursor poller.Cursor) []*tweet.Post {
	if cursor == "" {
		return posts
	}
	floor, err := strconv.ParseUint(string(cursor), 10, 64)
	if err != nil {
		return posts
	}

	kept := posts[:0]
	for _, p := range posts {
		if p.ID > floor {
			kept = append(kept, p)
		}
	}
	return kept
}

func newestID(posts []*tweet.Post) uint64 {
	var newest uint64
	for _, p := range posts {
		newest = max(newest, p.ID)
	}
	return newest
}
