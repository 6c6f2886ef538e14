package twitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/lepinkainen/babble/pkg/poller"
	"github.com/lepinkainen/babble/pkg/providers"
)

// SourceConfig is the config passed to the timeline providers registered by this package.
type SourceConfig struct {
	Client *Client
	// ListName selects the list for the "list" provider.
	ListName string
}

func init() {
	providers.RegisterProvider("home", &providers.ProviderInfo{
		Name:        "Home",
		Description: "Home timeline of the authenticated user",
		Factory:     homeSource,
	})
	providers.RegisterProvider("list", &providers.ProviderInfo{
		Name:        "List",
		Description: "Timeline of a list owned by the authenticated user",
		Factory:     listSource,
	})
	providers.RegisterProvider("me", &providers.ProviderInfo{
		Name:        "Me",
		Description: "Recent posts of the authenticated user",
		Factory:     meSource,
	})
}

func sourceConfig(config any) (*SourceConfig, error) {
	cfg, ok := config.(*SourceConfig)
	if !ok || cfg == nil || cfg.Client == nil {
		return nil, fmt.Errorf("invalid source config type %T", config)
	}
	return cfg, nil
}

func homeSource(ctx context.Context, config any) (poller.Source, error) {
	cfg, err := sourceConfig(config)
	if err != nil {
		return nil, err
	}
	me, err := cfg.Client.Me(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Client.HomeTimeline(me.ID), nil
}

func listSource(ctx context.Context, config any) (poller.Source, error) {
	cfg, err := sourceConfig(config)
	if err != nil {
		return nil, err
	}
	if cfg.ListName == "" {
		return nil, errors.New("list name is required")
	}
	me, err := cfg.Client.Me(ctx)
	if err != nil {
		return nil, err
	}
	id, err := cfg.Client.ListID(ctx, me.ID, cfg.ListName)
	if err != nil {
		return nil, err
	}
	return cfg.Client.ListTimeline(id), nil
}

func meSource(ctx context.Context, config any) (poller.Source, error) {
	cfg, err := sourceConfig(config)
	if err != nil {
		return nil, err
	}
	me, err := cfg.Client.Me(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Client.UserTimeline(me.ID), nil
}
