package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/oauth2"

	"github.com/lepinkainen/babble/internal/auth"
	"github.com/lepinkainen/babble/internal/config"
	"github.com/lepinkainen/babble/internal/twitter"
	"github.com/lepinkainen/babble/pkg/api"
	"github.com/lepinkainen/babble/pkg/database"
	httputil "github.com/lepinkainen/babble/pkg/http"
)

const cacheTable = "lookups"

// session is an authenticated connection to Twitter.
type session struct {
	cfg     *config.Config
	store   *auth.TokenStore
	base    *http.Client
	cache   *database.Cache
	client  *twitter.Client
	account *twitter.Account
}

// loadConfig reads the config file, asks for credentials when none are set and
// applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasCredentials() {
		fmt.Fprintf(os.Stderr, "No Twitter client credentials found, they will be saved to %s\n", cfg.Path())
		if err := config.PromptCredentials(cfg, config.TerminalPrompter{}); err != nil {
			return nil, err
		}
	}

	if CLI.PageSize > 0 {
		cfg.Feed.PageSize = CLI.PageSize
	}
	if CLI.Interval > 0 {
		cfg.Feed.Interval = CLI.Interval
	}
	return cfg, cfg.Validate()
}

func authConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		ClientID:     cfg.Twitter.ClientID,
		ClientSecret: cfg.Twitter.ClientSecret,
		RedirectPort: cfg.Twitter.RedirectPort,
	}
}

func newSession(cfg *config.Config) (*session, error) {
	cache, err := database.OpenCache(cfg.Cache.Path, cacheTable)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return &session{
		cfg:   cfg,
		store: auth.NewTokenStore(cfg.Twitter.TokenFile),
		base:  httputil.NewClient(nil),
		cache: cache,
	}, nil
}

// openSession loads the saved token, logging in when there is none or when
// Twitter rejects it, and verifies the account.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	tok, err := s.store.Load()
	if errors.Is(err, auth.ErrNoToken) {
		tok, err = s.login(ctx)
	}
	if err != nil {
		s.Close()
		return nil, err
	}

	s.connect(ctx, tok)
	s.account, err = s.client.Verify(ctx)
	if errors.Is(api.Classify(err), api.ErrUnauthorized) {
		slog.Warn("Saved token was rejected, logging in again", "error", err)
		if tok, err = s.login(ctx); err == nil {
			s.connect(ctx, tok)
			s.account, err = s.client.Verify(ctx)
		}
	}
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// connect builds the API client around tok.
func (s *session) connect(ctx context.Context, tok *oauth2.Token) {
	httpClient := auth.Client(ctx, authConfig(s.cfg), s.store, tok, s.base)
	s.client = twitter.NewClient(httpClient, twitter.Options{
		Cache:    s.cache,
		CacheTTL: s.cfg.Cache.TTL,
	})
}

func (s *session) login(ctx context.Context) (*oauth2.Token, error) {
	flow := &auth.Flow{
		Config:     authConfig(s.cfg),
		Store:      s.store,
		HTTPClient: s.base,
		OpenBrowser: func(url string) error {
			fmt.Fprintf(os.Stderr, "Log in to Twitter in your browser:\n%s\n", url)
			return auth.OpenBrowser(url)
		},
	}
	return flow.Login(ctx)
}

// Close releases the cache database.
func (s *session) Close() {
	if err := s.cache.Close(); err != nil {
		slog.Warn("Failed to close cache", "error", err)
	}
}

// banner shows the logged in account. Markdown output fences it as a code block.
func banner(account *twitter.Account, markdown bool) string {
	text := lipgloss.NewStyle().
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		Render("@" + account.Username)

	if markdown {
		return "```\n" + text + "\n```\n"
	}
	return text + "\n"
}
