package store

import "sync"

type ChannelRepository struct {
	mu       sync.RWMutex
	channels map[string]*Channel
	tracker  *Tracker
}

func NewChannelRepository(t *Tracker) *ChannelRepository {
	return &ChannelRepository{
		channels: make(map[string]*Channel),
		tracker:  t,
	}
}

func (r *ChannelRepository) Get(id string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.channels[id]
	if !ok {
		return Channel{}, false
	}
	return copyChannel(ch), true
}

func (r *ChannelRepository) Set(ch Channel) {
	r.mu.Lock()
	c := copyChannel(&ch)
	r.channels[ch.ID] = &c
	r.mu.Unlock()

	r.tracker.mark(KindChannels)
}

// Replace swaps the whole channel set, keeping the locally tracked
// attachment count of channels that survive when the new entry has none.
func (r *ChannelRepository) Replace(channels []Channel) {
	r.mu.Lock()
	next := make(map[string]*Channel, len(channels))
	for i := range channels {
		c := copyChannel(&channels[i])
		if prev, ok := r.channels[c.ID]; ok && c.AttachmentCount == nil && prev.AttachmentCount != nil {
			n := *prev.AttachmentCount
			c.AttachmentCount = &n
		}
		next[c.ID] = &c
	}
	r.channels = next
	r.mu.Unlock()

	r.tracker.mark(KindChannels)
}

// ServerChannelIDs lists the ids of the channels that belong to serverID.
func (r *ChannelRepository) ServerChannelIDs(serverID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, ch := range r.channels {
		if serverID != "" && ch.ServerID == serverID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *ChannelRepository) SetAttachmentCount(id string, count int) bool {
	return r.update(id, func(ch *Channel) {
		ch.AttachmentCount = &count
	})
}

func (r *ChannelRepository) UpdateLastMessaged(id string, ts int64) bool {
	return r.update(id, func(ch *Channel) {
		ch.LastMessagedAt = ts
	})
}

func (r *ChannelRepository) UpdateLastSeen(id string, ts int64) bool {
	return r.update(id, func(ch *Channel) {
		ch.LastSeen = ts
	})
}

func (r *ChannelRepository) update(id string, fn func(*Channel)) bool {
	r.mu.Lock()
	ch, ok := r.channels[id]
	if ok {
		fn(ch)
	}
	r.mu.Unlock()

	if ok {
		r.tracker.mark(KindChannels)
	}
	return ok
}

func copyChannel(ch *Channel) Channel {
	c := *ch
	if ch.AttachmentCount != nil {
		n := *ch.AttachmentCount
		c.AttachmentCount = &n
	}
	if ch.Recipient != nil {
		u := *ch.Recipient
		c.Recipient = &u
	}
	return c
}
