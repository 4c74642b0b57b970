package events

import (
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"go.uber.org/zap"
)

// OnReady replaces the locally held channels, server members and friends with
// the server's snapshot. Mentions are replaced only when the snapshot carries
// them, so a restored local copy survives a server that omits them.
func (h *Handler) OnReady(p Ready) {
	members := 0

	h.batch.Batch(func() {
		h.users.Set(p.User)
		for _, u := range p.Users {
			h.users.Set(u)
		}

		h.channels.Replace(p.Channels)

		for _, srv := range p.Servers {
			list := make([]store.Member, 0, len(srv.Members))
			for _, m := range srv.Members {
				m.Creator = m.UserID == srv.CreatedByID
				list = append(list, m)
			}
			h.members.ReplaceServer(srv.ID, list)
			members += len(list)
		}

		h.friends.Replace(p.Friends)

		if p.Mentions != nil {
			h.mentions.Replace(p.Mentions)
		}
	})

	if p.User.ID != h.session.UserID() {
		h.logger.Warn("ready snapshot is for a different user",
			zap.String("snapshot_user_id", p.User.ID),
			zap.String("session_user_id", h.session.UserID()),
		)
	}

	h.logger.Info("session snapshot applied",
		zap.Int("channels", len(p.Channels)),
		zap.Int("servers", len(p.Servers)),
		zap.Int("members", members),
		zap.Int("friends", len(p.Friends)),
	)
}
