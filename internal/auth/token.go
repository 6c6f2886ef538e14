package auth

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/babble/pkg/filesystem"
)

// ErrNoToken is returned by TokenStore.Load when nothing has been saved yet.
var ErrNoToken = errors.New("no saved token")

// storedToken is the on-disk form of an oauth2.Token.
type storedToken struct {
	AccessToken  string    `yaml:"access_token"`
	TokenType    string    `yaml:"token_type,omitempty"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// TokenStore keeps the OAuth2 token in a YAML file readable only by the user.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore creates a store backed by path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Load reads the saved token.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var stored storedToken
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", s.path, err)
	}
	if stored.AccessToken == "" && stored.RefreshToken == "" {
		return nil, ErrNoToken
	}

	return &oauth2.Token{
		AccessToken:  stored.AccessToken,
		TokenType:    stored.TokenType,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
	}, nil
}

// Save writes tok, replacing any previous token.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(storedToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := filesystem.EnsureDirectoryExists(s.path); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the token file. A missing file is not an error.
func (s *TokenStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// persistingSource saves every token it hands out that differs from the last one,
// so refreshed tokens survive restarts.
type persistingSource struct {
	base  oauth2.TokenSource
	store *TokenStore

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if tok.AccessToken != p.last {
		if err := p.store.Save(tok); err != nil {
			return nil, err
		}
		p.last = tok.AccessToken
	}
	return tok, nil
}
