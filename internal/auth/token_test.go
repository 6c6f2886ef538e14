package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenStore(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), ".babble", "token.yaml"))

	if _, err := store.Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Load() on empty store error = %v, want ErrNoToken", err)
	}

	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	want := &oauth2.Token{AccessToken: "access", TokenType: "bearer", RefreshToken: "refresh", Expiry: expiry}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken ||
		got.TokenType != want.TokenType || !got.Expiry.Equal(expiry) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoToken) {
		t.Errorf("Load() after Delete error = %v", err)
	}
}

func TestTokenStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.yaml")
	if err := os.WriteFile(path, []byte("access_token: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewTokenStore(path).Load()
	if err == nil || errors.Is(err, ErrNoToken) {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

type sequenceSource struct {
	tokens []*oauth2.Token
	i      int
}

func (s *sequenceSource) Token() (*oauth2.Token, error) {
	tok := s.tokens[min(s.i, len(s.tokens)-1)]
	s.i++
	return tok, nil
}

func TestPersistingSourceSavesChangedTokens(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.yaml"))
	source := &persistingSource{
		base: &sequenceSource{tokens: []*oauth2.Token{
			{AccessToken: "first"},
			{AccessToken: "second", RefreshToken: "r2"},
		}},
		store: store,
		last:  "first",
	}

	if _, err := source.Token(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoToken) {
		t.Errorf("unchanged token was saved, Load() error = %v", err)
	}

	if _, err := source.Token(); err != nil {
		t.Fatal(err)
	}
	saved, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.AccessToken != "second" || saved.RefreshToken != "r2" {
		t.Errorf("saved token = %+v", saved)
	}
}
