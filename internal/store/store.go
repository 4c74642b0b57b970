// Package store holds the client-side view of channels, messages, mentions,
// users, friends and server members.
//
// Every repository reports its mutations to a shared Tracker. Mutations made
// inside Tracker.Batch are coalesced and delivered to observers once, after the
// outermost batch returns, so observers never see a half-applied event.
package store

import "sync"

type Kind uint8

const (
	KindChannels Kind = 1 << iota
	KindMessages
	KindMentions
	KindUsers
	KindFriends
	KindMembers
)

type Change struct {
	Kinds Kind
}

func (c Change) Has(k Kind) bool {
	return c.Kinds&k != 0
}

type Observer func(Change)

type Tracker struct {
	mu        sync.Mutex
	depth     int
	pending   Kind
	nextID    int
	observers map[int]Observer
}

func NewTracker() *Tracker {
	return &Tracker{observers: make(map[int]Observer)}
}

// Subscribe registers fn and returns a function that removes it.
func (t *Tracker) Subscribe(fn Observer) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.observers[id] = fn

	return func() {
		t.mu.Lock()
		delete(t.observers, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) Batch(fn func()) {
	t.mu.Lock()
	t.depth++
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.depth--
		if t.depth > 0 || t.pending == 0 {
			t.mu.Unlock()
			return
		}
		change := Change{Kinds: t.pending}
		t.pending = 0
		observers := t.snapshot()
		t.mu.Unlock()

		emit(observers, change)
	}()

	fn()
}

func (t *Tracker) mark(k Kind) {
	t.mu.Lock()
	if t.depth > 0 {
		t.pending |= k
		t.mu.Unlock()
		return
	}
	observers := t.snapshot()
	t.mu.Unlock()

	emit(observers, Change{Kinds: k})
}

func (t *Tracker) snapshot() []Observer {
	out := make([]Observer, 0, len(t.observers))
	for _, o := range t.observers {
		out = append(out, o)
	}
	return out
}

func emit(observers []Observer, change Change) {
	for _, o := range observers {
		o(change)
	}
}

type Store struct {
	*Tracker
	Channels *ChannelRepository
	Messages *MessageRepository
	Mentions *MentionRepository
	Users    *UserRepository
	Friends  *FriendRepository
	Members  *MemberRepository
}

func New() *Store {
	t := NewTracker()
	return &Store{
		Tracker:  t,
		Channels: NewChannelRepository(t),
		Messages: NewMessageRepository(t),
		Mentions: NewMentionRepository(t),
		Users:    NewUserRepository(t),
		Friends:  NewFriendRepository(t),
		Members:  NewMemberRepository(t),
	}
}
