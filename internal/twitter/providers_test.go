package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/lepinkainen/babble/pkg/api"
	"github.com/lepinkainen/babble/pkg/providers"
)

func TestRegisteredProviders(t *testing.T) {
	fake := newFakeAPI(t)
	fake.routes["/2/users/me"] = func(url.Values) (int, string) { return http.StatusOK, meBody }
	fake.fixture("/2/users/1/owned_lists", "owned_lists_page2.json")
	client := newTestClient(t, fake, newMemCache())

	tests := []struct {
		provider string
		listName string
		wantPath string
		wantErr  error
	}{
		{provider: "home", wantPath: homePath},
		{provider: "me", wantPath: "/2/users/1/tweets"},
		{provider: "list", listName: "golang", wantPath: "/2/lists/7003/tweets"},
		{provider: "list", listName: "missing", wantErr: api.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.listName, func(t *testing.T) {
			source, err := providers.CreateSource(context.Background(), tt.provider, &SourceConfig{Client: client, ListName: tt.listName})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSource() error = %v", err)
			}

			timeline, ok := source.(*Timeline)
			if !ok {
				t.Fatalf("source is %T, want *Timeline", source)
			}
			if timeline.path != tt.wantPath {
				t.Errorf("path = %q, want %q", timeline.path, tt.wantPath)
			}
		})
	}
}

func TestProviderConfigValidation(t *testing.T) {
	if _, err := providers.CreateSource(context.Background(), "home", "not a config"); err == nil {
		t.Error("CreateSource() accepted an invalid config")
	}
	if _, err := providers.CreateSource(context.Background(), "list", &SourceConfig{Client: &Client{}}); err == nil {
		t.Error("CreateSource(list) accepted an empty list name")
	}
}
