package twitter

import "time"

// Reference types in referenced_tweets.
const (
	refRetweeted = "retweeted"
	refQuoted    = "quoted"
	refRepliedTo = "replied_to"
)

// timelineResponse is the v2 payload shared by the home, user and list timelines.
type timelineResponse struct {
	Data     []apiTweet   `json:"data"`
	Includes includes     `json:"includes"`
	Meta     timelineMeta `json:"meta"`
	Errors   []apiProblem `json:"errors"`
}

type includes struct {
	Users  []apiUser  `json:"users"`
	Tweets []apiTweet `json:"tweets"`
	Media  []apiMedia `json:"media"`
	Places []apiPlace `json:"places"`
}

type timelineMeta struct {
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// apiProblem is a partial error reported next to data, typically a deleted
// or protected referenced tweet.
type apiProblem struct {
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	ResourceID string `json:"resource_id"`
}

type apiTweet struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	AuthorID         string          `json:"author_id"`
	CreatedAt        time.Time       `json:"created_at"`
	Source           string          `json:"source"`
	InReplyToUserID  string          `json:"in_reply_to_user_id"`
	ReferencedTweets []referenced    `json:"referenced_tweets"`
	PublicMetrics    publicMetrics   `json:"public_metrics"`
	Entities         tweetEntities   `json:"entities"`
	Attachments      tweetAttachment `json:"attachments"`
	Geo              tweetGeo        `json:"geo"`
}

type referenced struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type publicMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

type tweetEntities struct {
	URLs []urlEntity `json:"urls"`
}

type urlEntity struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
	MediaKey    string `json:"media_key"`
}

type tweetAttachment struct {
	MediaKeys []string `json:"media_keys"`
}

type tweetGeo struct {
	PlaceID string `json:"place_id"`
}

type apiUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type apiMedia struct {
	MediaKey        string `json:"media_key"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	PreviewImageURL string `json:"preview_image_url"`
}

type apiPlace struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type userResponse struct {
	Data apiUser `json:"data"`
}

type listsResponse struct {
	Data []apiList   `json:"data"`
	Meta listingMeta `json:"meta"`
}

type apiList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listingMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}
