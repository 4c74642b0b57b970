package events

import (
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"go.uber.org/zap"
)

func (h *Handler) OnMessageCreated(p MessageCreated) {
	msg := p.Message
	channel, hasChannel := h.channels.Get(msg.ChannelID)

	if created := len(msg.Attachments); created > 0 && hasChannel {
		h.batch.Batch(func() {
			h.channels.SetAttachmentCount(msg.ChannelID, attachmentCount(channel)+created)
		})
	}

	if p.SocketID != "" && p.SocketID == h.session.SocketID() {
		h.logger.Debug("skipping own message echo",
			zap.String("channel_id", msg.ChannelID),
			zap.String("message_id", msg.ID),
		)
		return
	}

	me := h.session.UserID()
	authorID := msg.CreatedBy.ID
	ownMessage := authorID == me
	blocked := h.friends.IsBlocked(authorID)

	var serverID string
	if hasChannel {
		serverID = channel.ServerID
	}

	h.batch.Batch(func() {
		h.channels.UpdateLastMessaged(msg.ChannelID, msg.CreatedAt)

		if ownMessage {
			h.channels.UpdateLastSeen(msg.ChannelID, msg.CreatedAt+1)
		} else if !hasChannel || channel.IsDirect() {
			h.users.Ensure(msg.CreatedBy)
		}

		if !ownMessage && !blocked && (serverID == "" || h.isMentioned(msg, serverID, me)) {
			h.mentions.Set(store.Mention{
				ChannelID: msg.ChannelID,
				UserID:    authorID,
				ServerID:  serverID,
				Count:     h.mentions.Count(msg.ChannelID) + 1,
			})
		}

		h.messages.Push(msg.ChannelID, msg)
	})

	if ownMessage || blocked {
		return
	}
	if h.view != nil && h.view.Viewing(msg.ChannelID) {
		return
	}
	if h.notifier == nil {
		return
	}
	h.notifier.PlayMessageSound(msg, serverID)
	h.notifier.DesktopNotification(msg)
}

func (h *Handler) OnMessageUpdated(p MessageUpdated) {
	if !h.messages.Update(p.ChannelID, p.MessageID, p.Updated) {
		h.logger.Debug("updated message not held locally",
			zap.String("channel_id", p.ChannelID),
			zap.String("message_id", p.MessageID),
		)
	}
}

func (h *Handler) OnMessageDeleted(p MessageDeleted) {
	h.batch.Batch(func() {
		h.messages.Remove(p.ChannelID, p.MessageID)

		if p.DeletedAttachmentCount == 0 {
			return
		}
		channel, ok := h.channels.Get(p.ChannelID)
		if !ok {
			return
		}
		prior := attachmentCount(channel)
		if prior == 0 {
			prior = p.DeletedAttachmentCount
		}
		h.channels.SetAttachmentCount(p.ChannelID, max(prior-p.DeletedAttachmentCount, 0))
	})
}

func (h *Handler) OnMessageDeletedBatch(p MessageDeletedBatch) {
	channelIDs := h.channels.ServerChannelIDs(p.ServerID)
	removed := h.messages.RemoveAuthoredBetween(channelIDs, p.UserID, p.FromTime, p.ToTime)

	h.logger.Debug("removed server messages in batch",
		zap.String("server_id", p.ServerID),
		zap.String("user_id", p.UserID),
		zap.Int("channels", len(channelIDs)),
		zap.Int("removed", removed),
	)
}

func (h *Handler) OnMessageReactionAdded(p ReactionAdded) {
	update := store.ReactionUpdate{
		Name:    p.Name,
		EmojiID: p.EmojiID,
		Gif:     p.Gif,
		Count:   p.Count,
	}
	if p.ReactedByUserID == h.session.UserID() {
		update.Reacted = boolPtr(true)
	}
	h.messages.UpdateReaction(p.ChannelID, p.MessageID, update)
}

func (h *Handler) OnMessageReactionRemoved(p ReactionRemoved) {
	update := store.ReactionUpdate{
		Name:    p.Name,
		EmojiID: p.EmojiID,
		Count:   p.Count,
	}
	if p.ReactionRemovedByUserID == h.session.UserID() {
		update.Reacted = boolPtr(false)
	}
	h.messages.UpdateReaction(p.ChannelID, p.MessageID, update)
}

func attachmentCount(ch store.Channel) int {
	if ch.AttachmentCount == nil {
		return 0
	}
	return *ch.AttachmentCount
}

func boolPtr(b bool) *bool {
	return &b
}
