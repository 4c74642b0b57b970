package events

import (
	"fmt"

	"github.com/Alexander-D-Karpov/concord-client/internal/store"
)

const (
	OpHello                  = "hello"
	OpReady                  = "ready"
	OpMessageCreated         = "message:created"
	OpMessageUpdated         = "message:updated"
	OpMessageDeleted         = "message:deleted"
	OpMessageDeletedBatch    = "message:deleted_batch"
	OpMessageReactionAdded   = "message:reaction_added"
	OpMessageReactionRemoved = "message:reaction_removed"
)

type Hello struct {
	SocketID string `json:"socketId"`
}

// Ready is the session snapshot the server sends once authenticated. It seeds
// the channel, member and friend stores the message reducers read from.
type Ready struct {
	User     store.User      `json:"user"`
	Servers  []ReadyServer   `json:"servers"`
	Channels []store.Channel `json:"channels"`
	Users    []store.User    `json:"users"`
	Friends  []store.Friend  `json:"friends"`
	Mentions []store.Mention `json:"mentions"`
}

type ReadyServer struct {
	ID          string         `json:"id"`
	CreatedByID string         `json:"createdById"`
	Members     []store.Member `json:"members"`
}

type MessageCreated struct {
	SocketID string        `json:"socketId"`
	Message  store.Message `json:"message"`
}

type MessageUpdated struct {
	ChannelID string             `json:"channelId"`
	MessageID string             `json:"messageId"`
	Updated   store.MessagePatch `json:"updated"`
}

type MessageDeleted struct {
	ChannelID              string `json:"channelId"`
	MessageID              string `json:"messageId"`
	DeletedAttachmentCount int    `json:"deletedAttachmentCount"`
}

type MessageDeletedBatch struct {
	UserID   string `json:"userId"`
	ServerID string `json:"serverId"`
	FromTime int64  `json:"fromTime"`
	ToTime   int64  `json:"toTime"`
}

type ReactionAdded struct {
	MessageID       string `json:"messageId"`
	ChannelID       string `json:"channelId"`
	Count           int    `json:"count"`
	ReactedByUserID string `json:"reactedByUserId"`
	EmojiID         string `json:"emojiId,omitempty"`
	Name            string `json:"name"`
	Gif             bool   `json:"gif,omitempty"`
}

type ReactionRemoved struct {
	MessageID               string `json:"messageId"`
	ChannelID               string `json:"channelId"`
	Count                   int    `json:"count"`
	ReactionRemovedByUserID string `json:"reactionRemovedByUserId"`
	EmojiID                 string `json:"emojiId,omitempty"`
	Name                    string `json:"name"`
}

func required(fields ...[2]string) error {
	for _, f := range fields {
		if f[1] == "" {
			return fmt.Errorf("%s is required", f[0])
		}
	}
	return nil
}

func (h Hello) Validate() error {
	return required([2]string{"socketId", h.SocketID})
}

func (r Ready) Validate() error {
	if err := required([2]string{"user.id", r.User.ID}); err != nil {
		return err
	}
	for _, c := range r.Channels {
		if c.ID == "" {
			return fmt.Errorf("channels[].id is required")
		}
	}
	for _, srv := range r.Servers {
		if srv.ID == "" {
			return fmt.Errorf("servers[].id is required")
		}
	}
	return nil
}

func (m MessageCreated) Validate() error {
	return required([2]string{"message.id", m.Message.ID}, [2]string{"message.channelId", m.Message.ChannelID})
}

func (m MessageUpdated) Validate() error {
	return required([2]string{"channelId", m.ChannelID}, [2]string{"messageId", m.MessageID})
}

func (m MessageDeleted) Validate() error {
	if m.DeletedAttachmentCount < 0 {
		return fmt.Errorf("deletedAttachmentCount must not be negative, got %d", m.DeletedAttachmentCount)
	}
	return required([2]string{"channelId", m.ChannelID}, [2]string{"messageId", m.MessageID})
}

func (m MessageDeletedBatch) Validate() error {
	return required([2]string{"userId", m.UserID}, [2]string{"serverId", m.ServerID})
}

func (r ReactionAdded) Validate() error {
	return required([2]string{"channelId", r.ChannelID}, [2]string{"messageId", r.MessageID})
}

func (r ReactionRemoved) Validate() error {
	return required([2]string{"channelId", r.ChannelID}, [2]string{"messageId", r.MessageID})
}
