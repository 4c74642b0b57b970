package events

import (
	"strings"

	"github.com/Alexander-D-Karpov/concord-client/internal/store"
)

// EveryoneMarker is how message content encodes an @everyone mention.
const EveryoneMarker = "[@:e]"

// isMentioned decides whether msg, posted in a channel of serverID, pings the
// user me. Callers have already excluded blocked authors.
func (h *Handler) isMentioned(msg store.Message, serverID, me string) bool {
	if serverID != "" && strings.Contains(msg.Content, EveryoneMarker) && h.canMentionEveryone(serverID, msg.CreatedBy.ID) {
		return true
	}

	for _, u := range msg.Mentions {
		if u.ID == me {
			return true
		}
	}

	for _, q := range msg.QuotedMessages {
		if q.CreatedBy != nil && q.CreatedBy.ID == me {
			return true
		}
	}

	if !msg.MentionReplies {
		return false
	}
	for _, r := range msg.ReplyMessages {
		if r.ReplyToMessage != nil && r.ReplyToMessage.CreatedBy != nil && r.ReplyToMessage.CreatedBy.ID == me {
			return true
		}
	}
	return false
}

func (h *Handler) canMentionEveryone(serverID, userID string) bool {
	if h.members == nil {
		return false
	}
	member, ok := h.members.Get(serverID, userID)
	if !ok {
		return false
	}
	return member.IsServerCreator() || member.HasPermission(store.PermMentionEveryone)
}
