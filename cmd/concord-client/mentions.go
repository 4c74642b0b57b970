package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/Alexander-D-Karpov/concord-client/internal/common/errors"
	"github.com/Alexander-D-Karpov/concord-client/internal/infra/cache"
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
)

func handleMentions(ctx context.Context, w io.Writer, clear bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Redis.Enabled {
		return fmt.Errorf("redis is not enabled in config")
	}
	if cfg.Session.UserID == "" {
		return fmt.Errorf("SESSION_USER_ID is required")
	}

	cacheClient, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		_ = cacheClient.Close()
	}()

	key := mentionsKey(cacheClient, cfg.Session.UserID)

	if clear {
		if err := cacheClient.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear mentions: %w", err)
		}
		_, err := fmt.Fprintln(w, "Mentions cleared")
		return err
	}

	mentions, err := loadMentions(ctx, cacheClient, key)
	if errors.IsNotFound(err) {
		_, err := fmt.Fprintln(w, "No persisted mentions")
		return err
	}
	if err != nil {
		return err
	}

	return printMentions(w, mentions)
}

func loadMentions(ctx context.Context, kv store.KV, key string) ([]store.Mention, error) {
	var mentions []store.Mention
	if err := kv.Get(ctx, key, &mentions); err != nil {
		if stderrors.Is(err, cache.ErrCacheMiss) {
			return nil, errors.NotFound("no mentions stored under " + key)
		}
		return nil, fmt.Errorf("load mentions: %w", err)
	}
	return mentions, nil
}

func printMentions(w io.Writer, mentions []store.Mention) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tSERVER\tFROM\tCOUNT")

	total := 0
	for _, m := range mentions {
		server := m.ServerID
		if server == "" {
			server = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", m.ChannelID, server, m.UserID, m.Count)
		total += m.Count
	}
	fmt.Fprintf(tw, "\t\t\t%d\n", total)

	return tw.Flush()
}
