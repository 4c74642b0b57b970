package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/infra/cache"
	"go.uber.org/zap"
)

type KV interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

// MentionPersister mirrors the unread mention records into a key-value store
// so they survive a client restart.
type MentionPersister struct {
	kv       KV
	key      string
	ttl      time.Duration
	mentions *MentionRepository
	tracker  *Tracker
	logger   *zap.Logger

	dirty chan struct{}
	wg    sync.WaitGroup
}

func NewMentionPersister(kv KV, s *Store, key string, ttl time.Duration, logger *zap.Logger) *MentionPersister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentionPersister{
		kv:       kv,
		key:      key,
		ttl:      ttl,
		mentions: s.Mentions,
		tracker:  s.Tracker,
		logger:   logger,
		dirty:    make(chan struct{}, 1),
	}
}

// Restore loads the saved snapshot. A missing snapshot is not an error.
func (p *MentionPersister) Restore(ctx context.Context) (int, error) {
	var saved []Mention
	err := p.kv.Get(ctx, p.key, &saved)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load mentions: %w", err)
	}

	p.mentions.Replace(saved)
	return len(saved), nil
}

func (p *MentionPersister) Flush(ctx context.Context) error {
	if err := p.kv.Set(ctx, p.key, p.mentions.All(), p.ttl); err != nil {
		return fmt.Errorf("save mentions: %w", err)
	}
	return nil
}

// Run writes a snapshot whenever mentions change until ctx is cancelled, then
// writes a final one.
func (p *MentionPersister) Run(ctx context.Context) {
	unsubscribe := p.tracker.Subscribe(func(c Change) {
		if !c.Has(KindMentions) {
			return
		}
		select {
		case p.dirty <- struct{}{}:
		default:
		}
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer unsubscribe()

		for {
			select {
			case <-p.dirty:
				if err := p.Flush(ctx); err != nil {
					p.logger.Warn("failed to persist mentions", zap.Error(err))
				}
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				if err := p.Flush(flushCtx); err != nil {
					p.logger.Warn("failed to persist mentions on shutdown", zap.Error(err))
				}
				cancel()
				return
			}
		}
	}()
}

func (p *MentionPersister) Wait() {
	p.wg.Wait()
}
