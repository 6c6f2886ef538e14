// Package main provides the CLI entry point for babble.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lepinkainen/babble/pkg/api"
)

// CLI structure
var CLI struct {
	Config   string        `help:"Configuration file path (default: ./config.yaml, then ~/.babble/config.yaml)"`
	Debug    bool          `help:"Enable debug logging" default:"false"`
	Markdown bool          `help:"Render posts as Markdown" short:"m"`
	Stream   bool          `help:"Keep polling for new posts" short:"s"`
	Color    string        `help:"Colorize output" enum:"auto,always,never" default:"auto"`
	PageSize int           `help:"Posts fetched per request (overrides feed.page_size)"`
	Interval time.Duration `help:"Delay between polls (overrides feed.interval)"`

	Home struct{} `cmd:"" default:"1" help:"Show the home timeline."`

	List struct {
		Name string `help:"Name of a list you own" required:""`
	} `cmd:"" help:"Show the timeline of a list."`

	Me struct{} `cmd:"" help:"Show your own posts."`

	Browse struct {
		Feed string `help:"Feed to browse" enum:"home,list,me" default:"home"`
		Name string `help:"List name for the list feed"`
	} `cmd:"" help:"Browse one page of a feed interactively."`

	Login struct{} `cmd:"" help:"Log in to Twitter and save the token."`

	Logout struct{} `cmd:"" help:"Revoke the saved token and clear cached lookups."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("babble"),
		kong.Description("Read Twitter timelines in the terminal."),
		kong.UsageOnError(),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	if profile, ok := colorProfile(CLI.Color); ok {
		lipgloss.SetColorProfile(profile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	switch kctx.Command() {
	case "home":
		err = showFeed(ctx, "home", "")
	case "list":
		err = showFeed(ctx, "list", CLI.List.Name)
	case "me":
		err = showFeed(ctx, "me", "")
	case "browse":
		if CLI.Browse.Feed == "list" && CLI.Browse.Name == "" {
			kctx.Fatalf("--name is required when browsing a list")
		}
		err = browseFeed(ctx, CLI.Browse.Feed, CLI.Browse.Name)
	case "login":
		err = login(ctx)
	case "logout":
		err = logout(ctx)
	default:
		panic(kctx.Command())
	}

	stop()
	os.Exit(exitCode(err))
}

// colorProfile maps the --color flag to a forced color profile. Auto leaves
// detection to lipgloss.
func colorProfile(mode string) (termenv.Profile, bool) {
	switch mode {
	case "always":
		return termenv.ANSI256, true
	case "never":
		return termenv.Ascii, true
	default:
		return termenv.Ascii, false
	}
}

// exitCode logs err and returns the process exit status. Interrupts are a clean exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}

	slog.Error("babble failed", "error", err)
	switch {
	case errors.Is(api.Classify(err), api.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, "Authorization was rejected, run `babble login` to log in again.")
	case errors.Is(err, api.ErrNotFound):
		fmt.Fprintln(os.Stderr, "The requested feed was not found.")
	}
	return 1
}
