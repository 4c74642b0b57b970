package store

import "sync"

// Permission is a bit set of role permissions within a server.
type Permission uint64

const (
	PermAdmin Permission = 1 << iota
	PermSendMessages
	PermManageRoles
	PermManageChannels
	PermKickMembers
	PermBanMembers
	PermMentionEveryone
	PermNicknameMember
	PermMentionRoles
)

// Has reports whether p grants perm. Admin grants everything.
func (p Permission) Has(perm Permission) bool {
	if p&PermAdmin != 0 {
		return true
	}
	return p&perm == perm
}

type Member struct {
	ServerID    string     `json:"serverId"`
	UserID      string     `json:"userId"`
	Permissions Permission `json:"permissions"`
	Creator     bool       `json:"creator,omitempty"`
}

func (m Member) IsServerCreator() bool {
	return m.Creator
}

func (m Member) HasPermission(perm Permission) bool {
	return m.Permissions.Has(perm)
}

type memberKey struct {
	serverID string
	userID   string
}

type MemberRepository struct {
	mu      sync.RWMutex
	members map[memberKey]*Member
	tracker *Tracker
}

func NewMemberRepository(t *Tracker) *MemberRepository {
	return &MemberRepository{
		members: make(map[memberKey]*Member),
		tracker: t,
	}
}

func (r *MemberRepository) Get(serverID, userID string) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[memberKey{serverID, userID}]
	if !ok {
		return Member{}, false
	}
	return *m, true
}

func (r *MemberRepository) Set(m Member) {
	r.mu.Lock()
	v := m
	r.members[memberKey{m.ServerID, m.UserID}] = &v
	r.mu.Unlock()

	r.tracker.mark(KindMembers)
}

// ReplaceServer swaps the member list of one server.
func (r *MemberRepository) ReplaceServer(serverID string, members []Member) {
	r.mu.Lock()
	for k := range r.members {
		if k.serverID == serverID {
			delete(r.members, k)
		}
	}
	for _, m := range members {
		v := m
		v.ServerID = serverID
		r.members[memberKey{serverID, m.UserID}] = &v
	}
	r.mu.Unlock()

	r.tracker.mark(KindMembers)
}
