// Package events applies server-pushed message events to the client stores.
package events

import (
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"go.uber.org/zap"
)

type Batcher interface {
	Batch(fn func())
}

type ChannelStore interface {
	Get(id string) (store.Channel, bool)
	ServerChannelIDs(serverID string) []string
	SetAttachmentCount(id string, count int) bool
	UpdateLastMessaged(id string, ts int64) bool
	UpdateLastSeen(id string, ts int64) bool
	Replace(channels []store.Channel)
}

type MessageStore interface {
	Push(channelID string, msg store.Message)
	Update(channelID, messageID string, patch store.MessagePatch) bool
	Remove(channelID, messageID string) bool
	RemoveAuthoredBetween(channelIDs []string, userID string, from, to int64) int
	UpdateReaction(channelID, messageID string, update store.ReactionUpdate) bool
}

type MentionStore interface {
	Count(channelID string) int
	Set(m store.Mention)
	Replace(mentions []store.Mention)
}

type UserStore interface {
	Ensure(u store.User) bool
	Set(u store.User)
}

type FriendStore interface {
	IsBlocked(userID string) bool
	Replace(friends []store.Friend)
}

type MemberStore interface {
	Get(serverID, userID string) (store.Member, bool)
	ReplaceServer(serverID string, members []store.Member)
}

type Session interface {
	UserID() string
	SocketID() string
}

type View interface {
	Viewing(channelID string) bool
}

type Notifier interface {
	PlayMessageSound(msg store.Message, serverID string)
	DesktopNotification(msg store.Message)
}

type Deps struct {
	Batcher  Batcher
	Channels ChannelStore
	Messages MessageStore
	Mentions MentionStore
	Users    UserStore
	Friends  FriendStore
	Members  MemberStore
	Session  Session
	View     View
	Notifier Notifier
	Logger   *zap.Logger
}

type Handler struct {
	batch    Batcher
	channels ChannelStore
	messages MessageStore
	mentions MentionStore
	users    UserStore
	friends  FriendStore
	members  MemberStore
	session  Session
	view     View
	notifier Notifier
	logger   *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		batch:    d.Batcher,
		channels: d.Channels,
		messages: d.Messages,
		mentions: d.Mentions,
		users:    d.Users,
		friends:  d.Friends,
		members:  d.Members,
		session:  d.Session,
		view:     d.View,
		notifier: d.Notifier,
		logger:   logger,
	}
}

// NewStoreHandler wires a handler to every repository of s.
func NewStoreHandler(s *store.Store, sess Session, view View, notifier Notifier, logger *zap.Logger) *Handler {
	return NewHandler(Deps{
		Batcher:  s,
		Channels: s.Channels,
		Messages: s.Messages,
		Mentions: s.Mentions,
		Users:    s.Users,
		Friends:  s.Friends,
		Members:  s.Members,
		Session:  sess,
		View:     view,
		Notifier: notifier,
		Logger:   logger,
	})
}
