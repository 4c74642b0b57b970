package store

import (
	"sort"
	"sync"
)

type MentionRepository struct {
	mu       sync.RWMutex
	mentions map[string]*Mention
	tracker  *Tracker
}

func NewMentionRepository(t *Tracker) *MentionRepository {
	return &MentionRepository{
		mentions: make(map[string]*Mention),
		tracker:  t,
	}
}

func (r *MentionRepository) Get(channelID string) (Mention, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.mentions[channelID]
	if !ok {
		return Mention{}, false
	}
	return *m, true
}

// Count returns the unread mention count for channelID, zero when untracked.
func (r *MentionRepository) Count(channelID string) int {
	m, _ := r.Get(channelID)
	return m.Count
}

func (r *MentionRepository) Set(m Mention) {
	r.mu.Lock()
	v := m
	r.mentions[m.ChannelID] = &v
	r.mu.Unlock()

	r.tracker.mark(KindMentions)
}

func (r *MentionRepository) Remove(channelID string) {
	r.mu.Lock()
	_, ok := r.mentions[channelID]
	delete(r.mentions, channelID)
	r.mu.Unlock()

	if ok {
		r.tracker.mark(KindMentions)
	}
}

// All returns every mention record ordered by channel id.
func (r *MentionRepository) All() []Mention {
	r.mu.RLock()
	out := make([]Mention, 0, len(r.mentions))
	for _, m := range r.mentions {
		out = append(out, *m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// Replace swaps the whole mention set, e.g. when restoring a snapshot.
func (r *MentionRepository) Replace(mentions []Mention) {
	r.mu.Lock()
	r.mentions = make(map[string]*Mention, len(mentions))
	for i := range mentions {
		m := mentions[i]
		r.mentions[m.ChannelID] = &m
	}
	r.mu.Unlock()

	r.tracker.mark(KindMentions)
}

func (r *MentionRepository) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, m := range r.mentions {
		total += m.Count
	}
	return total
}
