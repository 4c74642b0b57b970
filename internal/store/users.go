package store

import "sync"

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*User
	tracker *Tracker
}

func NewUserRepository(t *Tracker) *UserRepository {
	return &UserRepository{
		users:   make(map[string]*User),
		tracker: t,
	}
}

func (r *UserRepository) Get(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, false
	}
	return *u, true
}

func (r *UserRepository) Set(u User) {
	r.mu.Lock()
	v := u
	r.users[u.ID] = &v
	r.mu.Unlock()

	r.tracker.mark(KindUsers)
}

// Ensure stores u unless a user with the same id is already known.
func (r *UserRepository) Ensure(u User) bool {
	r.mu.Lock()
	_, exists := r.users[u.ID]
	if !exists {
		v := u
		r.users[u.ID] = &v
	}
	r.mu.Unlock()

	if !exists {
		r.tracker.mark(KindUsers)
	}
	return !exists
}

type FriendRepository struct {
	mu      sync.RWMutex
	friends map[string]*Friend
	tracker *Tracker
}

func NewFriendRepository(t *Tracker) *FriendRepository {
	return &FriendRepository{
		friends: make(map[string]*Friend),
		tracker: t,
	}
}

func (r *FriendRepository) Get(userID string) (Friend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.friends[userID]
	if !ok {
		return Friend{}, false
	}
	return *f, true
}

func (r *FriendRepository) Set(f Friend) {
	r.mu.Lock()
	v := f
	r.friends[f.UserID] = &v
	r.mu.Unlock()

	r.tracker.mark(KindFriends)
}

func (r *FriendRepository) Replace(friends []Friend) {
	r.mu.Lock()
	r.friends = make(map[string]*Friend, len(friends))
	for _, f := range friends {
		v := f
		r.friends[f.UserID] = &v
	}
	r.mu.Unlock()

	r.tracker.mark(KindFriends)
}

func (r *FriendRepository) IsBlocked(userID string) bool {
	f, ok := r.Get(userID)
	return ok && f.Status == FriendStatusBlocked
}
