package tweet

import (
	"errors"
	"testing"
)

func TestHandleAndAuthorName(t *testing.T) {
	tests := []struct {
		name       string
		post       *Post
		wantHandle string
		wantName   string
	}{
		{name: "nil post", post: nil, wantHandle: "", wantName: "?"},
		{name: "no author", post: &Post{}, wantHandle: "", wantName: "?"},
		{name: "author", post: &Post{Author: &User{Handle: "alice", Name: "Alice"}}, wantHandle: "alice", wantName: "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.Handle(); got != tt.wantHandle {
				t.Errorf("Handle() = %q, want %q", got, tt.wantHandle)
			}
			if got := tt.post.AuthorName("?"); got != tt.wantName {
				t.Errorf("AuthorName() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestIsReply(t *testing.T) {
	inner := &Post{Text: "inner"}

	tests := []struct {
		name string
		post Post
		want bool
	}{
		{name: "plain", post: Post{}, want: false},
		{name: "reply", post: Post{ReplyToHandle: "bob"}, want: true},
		{name: "reply with repost", post: Post{ReplyToHandle: "bob", RepostOf: inner}, want: false},
		{name: "reply with quote", post: Post{ReplyToHandle: "bob", QuoteOf: inner}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsReply(); got != tt.want {
				t.Errorf("IsReply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	inner := &Post{Text: "inner"}

	tests := []struct {
		name    string
		post    Post
		wantErr error
	}{
		{name: "plain", post: Post{}},
		{name: "repost", post: Post{RepostOf: inner}},
		{name: "quote", post: Post{QuoteOf: inner}},
		{name: "both", post: Post{RepostOf: inner, QuoteOf: inner}, wantErr: ErrRepostAndQuote},
		{name: "nested both", post: Post{QuoteOf: &Post{RepostOf: inner, QuoteOf: inner}}, wantErr: ErrRepostAndQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.post.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
