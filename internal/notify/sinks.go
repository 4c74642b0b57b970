package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/Alexander-D-Karpov/concord-client/internal/timefmt"
)

// Bell rings the terminal bell.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Deliver(Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}

// Terminal prints one line per notification.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	format *timefmt.Formatter
}

func NewTerminal(w io.Writer, format *timefmt.Formatter) *Terminal {
	if format == nil {
		format = timefmt.New()
	}
	return &Terminal{w: w, format: format}
}

func (t *Terminal) Deliver(n Notification) error {
	where := n.ChannelID
	if n.ServerID != "" {
		where = n.ServerID + "/" + n.ChannelID
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "[%s] %s in %s: %s\n", t.format.FormatTimestamp(n.At), n.Author, where, n.Body)
	return err
}
