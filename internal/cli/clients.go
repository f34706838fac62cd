package cli

import (
	"context"
	"fmt"

	"Driftwood/internal/core/bluesky"
	"Driftwood/internal/core/feed"
	"Driftwood/internal/core/reddit"
)

// Provider names accepted by the --provider flag.
const (
	providerBluesky = "bluesky"
	providerReddit  = "reddit"
)

// providerClient builds and logs in the client selected by --provider.
func providerClient(ctx context.Context) (feed.Client, error) {
	switch providerName {
	case providerBluesky:
		return blueskyClient(ctx)
	case providerReddit:
		return redditClient(ctx)
	default:
		return nil, fmt.Errorf("unknown provider %q (expected bluesky or reddit)", providerName)
	}
}

// graphClient builds the client for follow-graph commands. Reddit has no
// follower-graph API, so these commands are Bluesky-only.
func graphClient(ctx context.Context) (*bluesky.Client, error) {
	if providerName != providerBluesky {
		return nil, fmt.Errorf("the follow graph is only available on bluesky")
	}
	return blueskyClient(ctx)
}

func blueskyClient(ctx context.Context) (*bluesky.Client, error) {
	if cfg.Bluesky.Identifier == "" || cfg.Bluesky.Password == "" {
		return nil, fmt.Errorf("BLUESKY_IDENTIFIER and BLUESKY_PASSWORD must be set")
	}
	client := bluesky.New(bluesky.Config{
		Host:       cfg.Bluesky.Host,
		Identifier: cfg.Bluesky.Identifier,
		Password:   cfg.Bluesky.Password,
	},
		bluesky.WithLogger(logger),
		bluesky.WithDebug(debugEnabled()),
	)
	if err := client.Login(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func redditClient(ctx context.Context) (*reddit.Client, error) {
	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		return nil, fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set")
	}
	if cfg.Reddit.Username == "" || cfg.Reddit.Password == "" {
		return nil, fmt.Errorf("REDDIT_USERNAME and REDDIT_PASSWORD must be set")
	}
	client := reddit.New(reddit.Config{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		Username:     cfg.Reddit.Username,
		Password:     cfg.Reddit.Password,
		UserAgent:    cfg.Reddit.UserAgent,
		Subreddit:    cfg.Reddit.Subreddit,
	},
		reddit.WithLogger(logger),
		reddit.WithDebug(debugEnabled()),
	)
	if err := client.Login(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// postKind parses the --type flag.
func postKind() (feed.PostKind, error) {
	return feed.ParseKind(kindFlag)
}
