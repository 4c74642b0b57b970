package store

import "sync"

type ReactionUpdate struct {
	Name    string
	EmojiID string
	Gif     bool
	Count   int
	// Reacted is left untouched when nil.
	Reacted *bool
}

type MessageRepository struct {
	mu        sync.RWMutex
	byChannel map[string][]*Message
	tracker   *Tracker
}

func NewMessageRepository(t *Tracker) *MessageRepository {
	return &MessageRepository{
		byChannel: make(map[string][]*Message),
		tracker:   t,
	}
}

func (r *MessageRepository) Push(channelID string, msg Message) {
	r.mu.Lock()
	m := msg
	r.byChannel[channelID] = append(r.byChannel[channelID], &m)
	r.mu.Unlock()

	r.tracker.mark(KindMessages)
}

func (r *MessageRepository) Get(channelID, messageID string) (Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, m := r.find(channelID, messageID); m != nil {
		return *m, true
	}
	return Message{}, false
}

func (r *MessageRepository) List(channelID string) []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.byChannel[channelID]
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = *m
	}
	return out
}

// Update applies patch to the message and drops any local send status.
func (r *MessageRepository) Update(channelID, messageID string, patch MessagePatch) bool {
	r.mu.Lock()
	_, m := r.find(channelID, messageID)
	if m != nil {
		patch.apply(m)
	}
	r.mu.Unlock()

	if m == nil {
		return false
	}
	r.tracker.mark(KindMessages)
	return true
}

func (r *MessageRepository) Remove(channelID, messageID string) bool {
	r.mu.Lock()
	i, m := r.find(channelID, messageID)
	if m != nil {
		msgs := r.byChannel[channelID]
		r.byChannel[channelID] = append(msgs[:i:i], msgs[i+1:]...)
	}
	r.mu.Unlock()

	if m == nil {
		return false
	}
	r.tracker.mark(KindMessages)
	return true
}

// RemoveAuthoredBetween drops the messages in channelIDs written by userID with
// from <= createdAt <= to, returning how many were removed.
func (r *MessageRepository) RemoveAuthoredBetween(channelIDs []string, userID string, from, to int64) int {
	removed := 0

	r.mu.Lock()
	for _, channelID := range channelIDs {
		msgs, ok := r.byChannel[channelID]
		if !ok {
			continue
		}
		kept := msgs[:0]
		for _, m := range msgs {
			if m.CreatedBy.ID == userID && m.CreatedAt >= from && m.CreatedAt <= to {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		for i := len(kept); i < len(msgs); i++ {
			msgs[i] = nil
		}
		r.byChannel[channelID] = kept
	}
	r.mu.Unlock()

	if removed > 0 {
		r.tracker.mark(KindMessages)
	}
	return removed
}

// UpdateReaction upserts the reaction matching update's emoji. A zero count
// removes it.
func (r *MessageRepository) UpdateReaction(channelID, messageID string, update ReactionUpdate) bool {
	r.mu.Lock()
	_, m := r.find(channelID, messageID)
	if m == nil {
		r.mu.Unlock()
		return false
	}

	target := Reaction{Name: update.Name, EmojiID: update.EmojiID}
	idx := -1
	for i, reaction := range m.Reactions {
		if reaction.SameEmoji(target) {
			idx = i
			break
		}
	}

	switch {
	case update.Count <= 0:
		if idx >= 0 {
			m.Reactions = append(m.Reactions[:idx:idx], m.Reactions[idx+1:]...)
		}
	case idx >= 0:
		reaction := &m.Reactions[idx]
		reaction.Count = update.Count
		reaction.Gif = update.Gif
		if update.Reacted != nil {
			reaction.Reacted = *update.Reacted
		}
	default:
		target.Count = update.Count
		target.Gif = update.Gif
		if update.Reacted != nil {
			target.Reacted = *update.Reacted
		}
		m.Reactions = append(m.Reactions, target)
	}
	r.mu.Unlock()

	r.tracker.mark(KindMessages)
	return true
}

func (r *MessageRepository) find(channelID, messageID string) (int, *Message) {
	for i, m := range r.byChannel[channelID] {
		if m.ID == messageID {
			return i, m
		}
	}
	return -1, nil
}
