package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lepinkainen/babble/internal/auth"
	"github.com/lepinkainen/babble/internal/twitter"
	"github.com/lepinkainen/babble/pkg/poller"
	"github.com/lepinkainen/babble/pkg/preview"
	"github.com/lepinkainen/babble/pkg/providers"
	"github.com/lepinkainen/babble/pkg/render"
)

// showFeed prints one page of feed, or keeps polling it with --stream.
func showFeed(ctx context.Context, feed, listName string) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Print(banner(s.account, CLI.Markdown))

	source, err := providers.CreateSource(ctx, feed, &twitter.SourceConfig{Client: s.client, ListName: listName})
	if err != nil {
		return err
	}

	p := poller.New(source, poller.NewWriterSink(os.Stdout), render.New(render.DefaultStyle(), render.ModeFromFlag(CLI.Markdown)))
	p.PageSize = s.cfg.Feed.PageSize
	p.Interval = s.cfg.Feed.Interval

	slog.Debug("Showing feed", "feed", feed, "stream", CLI.Stream, "page_size", p.PageSize)
	if CLI.Stream {
		return p.Run(ctx)
	}
	return p.Once(ctx)
}

// browseFeed fetches one page of feed and opens it in the interactive browser.
func browseFeed(ctx context.Context, feed, listName string) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	source, err := providers.CreateSource(ctx, feed, &twitter.SourceConfig{Client: s.client, ListName: listName})
	if err != nil {
		return err
	}

	page, err := source.Fetch(ctx, "", s.cfg.Feed.PageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch %s feed: %w", feed, err)
	}

	title := "@" + s.account.Username + " " + feed
	if listName != "" {
		title += " " + listName
	}
	return preview.Run(page.Posts, title, render.DefaultStyle(), os.Stdout)
}

// login always runs the browser flow, replacing any saved token.
func login(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	tok, err := s.login(ctx)
	if err != nil {
		return err
	}

	s.connect(ctx, tok)
	if s.account, err = s.client.Verify(ctx); err != nil {
		return err
	}
	fmt.Print(banner(s.account, CLI.Markdown))
	return nil
}

// logout revokes the saved token, deletes it and clears cached lookups.
func logout(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	tok, err := s.store.Load()
	switch {
	case errors.Is(err, auth.ErrNoToken):
		fmt.Fprintln(os.Stderr, "Not logged in.")
	case err != nil:
		return err
	default:
		if err := auth.Revoke(ctx, authConfig(cfg), tok, s.base); err != nil {
			slog.Warn("Failed to revoke token", "error", err)
		}
		if err := s.store.Delete(); err != nil {
			return err
		}
	}

	if err := twitter.NewClient(s.base, twitter.Options{Cache: s.cache}).Forget(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Logged out.")
	return nil
}
