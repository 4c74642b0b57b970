// Package session holds the identity of the signed-in user, the gateway
// connection id and what the user is currently looking at.
package session

import "sync"

const PaneMessages = "MessagePane"

type Pane struct {
	Name      string
	ChannelID string
}

type Session struct {
	mu       sync.RWMutex
	userID   string
	socketID string
	focused  bool
	pane     Pane
}

func New(userID string) *Session {
	return &Session{userID: userID, focused: true}
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) SetUserID(userID string) {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()
}

func (s *Session) SocketID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.socketID
}

func (s *Session) SetSocketID(socketID string) {
	s.mu.Lock()
	s.socketID = socketID
	s.mu.Unlock()
}

func (s *Session) HasFocus() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

func (s *Session) SetFocus(focused bool) {
	s.mu.Lock()
	s.focused = focused
	s.mu.Unlock()
}

func (s *Session) Pane() Pane {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane
}

func (s *Session) SetPane(p Pane) {
	s.mu.Lock()
	s.pane = p
	s.mu.Unlock()
}

// OpenChannel selects the message pane of channelID.
func (s *Session) OpenChannel(channelID string) {
	s.SetPane(Pane{Name: PaneMessages, ChannelID: channelID})
}

// Viewing reports whether the client is focused on channelID's message pane.
func (s *Session) Viewing(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused && s.pane.Name == PaneMessages && s.pane.ChannelID == channelID
}
