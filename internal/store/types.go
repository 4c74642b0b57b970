package store

type User struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Tag      string `json:"tag,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	HexColor string `json:"hexColor,omitempty"`
}

type Attachment struct {
	ID       string `json:"id,omitempty"`
	Path     string `json:"path,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Provider string `json:"provider,omitempty"`
}

type QuotedMessage struct {
	ID        string `json:"id"`
	Content   string `json:"content,omitempty"`
	CreatedBy *User  `json:"createdBy,omitempty"`
}

type ReplyMessage struct {
	ReplyToMessage *QuotedMessage `json:"replyToMessage,omitempty"`
}

type Reaction struct {
	Name    string `json:"name"`
	EmojiID string `json:"emojiId,omitempty"`
	Gif     bool   `json:"gif,omitempty"`
	Count   int    `json:"count"`
	Reacted bool   `json:"reacted"`
}

// SameEmoji reports whether r and o refer to the same emoji.
func (r Reaction) SameEmoji(o Reaction) bool {
	return r.EmojiID == o.EmojiID && r.Name == o.Name
}

type SentStatus int

const (
	SentStatusNone SentStatus = iota
	SentStatusSending
	SentStatusFailed
)

type Message struct {
	ID             string          `json:"id"`
	ChannelID      string          `json:"channelId"`
	CreatedBy      User            `json:"createdBy"`
	CreatedAt      int64           `json:"createdAt"`
	EditedAt       int64           `json:"editedAt,omitempty"`
	Content        string          `json:"content,omitempty"`
	Attachments    []Attachment    `json:"attachments,omitempty"`
	Mentions       []User          `json:"mentions,omitempty"`
	QuotedMessages []QuotedMessage `json:"quotedMessages,omitempty"`
	ReplyMessages  []ReplyMessage  `json:"replyMessages,omitempty"`
	MentionReplies bool            `json:"mentionReplies,omitempty"`
	Reactions      []Reaction      `json:"reactions,omitempty"`
	SentStatus     SentStatus      `json:"-"`
}

// MessagePatch carries the fields of a server-side message edit. Nil fields are
// left untouched.
type MessagePatch struct {
	Content        *string          `json:"content,omitempty"`
	EditedAt       *int64           `json:"editedAt,omitempty"`
	Attachments    *[]Attachment    `json:"attachments,omitempty"`
	Mentions       *[]User          `json:"mentions,omitempty"`
	QuotedMessages *[]QuotedMessage `json:"quotedMessages,omitempty"`
	ReplyMessages  *[]ReplyMessage  `json:"replyMessages,omitempty"`
	MentionReplies *bool            `json:"mentionReplies,omitempty"`
	Reactions      *[]Reaction      `json:"reactions,omitempty"`
}

func (p MessagePatch) apply(m *Message) {
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.EditedAt != nil {
		m.EditedAt = *p.EditedAt
	}
	if p.Attachments != nil {
		m.Attachments = *p.Attachments
	}
	if p.Mentions != nil {
		m.Mentions = *p.Mentions
	}
	if p.QuotedMessages != nil {
		m.QuotedMessages = *p.QuotedMessages
	}
	if p.ReplyMessages != nil {
		m.ReplyMessages = *p.ReplyMessages
	}
	if p.MentionReplies != nil {
		m.MentionReplies = *p.MentionReplies
	}
	if p.Reactions != nil {
		m.Reactions = *p.Reactions
	}
	m.SentStatus = SentStatusNone
}

type Channel struct {
	ID              string `json:"id"`
	ServerID        string `json:"serverId,omitempty"`
	Recipient       *User  `json:"recipient,omitempty"`
	AttachmentCount *int   `json:"attachmentCount,omitempty"`
	LastMessagedAt  int64  `json:"lastMessagedAt,omitempty"`
	LastSeen        int64  `json:"lastSeen,omitempty"`
}

// IsDirect reports whether c is a direct-message channel with one recipient.
func (c *Channel) IsDirect() bool {
	return c.Recipient != nil
}

type Mention struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	ServerID  string `json:"serverId,omitempty"`
	Count     int    `json:"count"`
}

type FriendStatus int

const (
	FriendStatusNone FriendStatus = iota
	FriendStatusSent
	FriendStatusPending
	FriendStatusFriends
	FriendStatusBlocked
)

type Friend struct {
	UserID string       `json:"userId"`
	Status FriendStatus `json:"status"`
}
