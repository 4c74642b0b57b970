package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"github.com/Alexander-D-Karpov/concord-client/internal/timefmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	got []Notification
	err error
}

func (c *captureSink) Deliver(n Notification) error {
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, n)
	return nil
}

type countingRecorder struct {
	counts map[string]int
}

func (r *countingRecorder) ObserveNotification(kind, result string) {
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[kind+"/"+result]++
}

func enabledConfig() config.NotificationConfig {
	return config.NotificationConfig{
		Enabled:       true,
		Sound:         true,
		Desktop:       true,
		PerMinute:     1,
		Burst:         2,
		PreviewLength: 20,
	}
}

func message(channelID, content string) store.Message {
	return store.Message{
		ID:        "m1",
		ChannelID: channelID,
		CreatedBy: store.User{ID: "u2", Username: "alice"},
		CreatedAt: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC).UnixMilli(),
		Content:   content,
	}
}

func TestDispatcherDelivers(t *testing.T) {
	sound, desktop := &captureSink{}, &captureSink{}
	rec := &countingRecorder{}
	d := NewDispatcher(enabledConfig(), sound, desktop, rec, nil)
	defer d.Close()

	msg := message("c1", "hello   there\nfriend")
	d.PlayMessageSound(msg, "s1")
	d.DesktopNotification(msg)

	require.Len(t, sound.got, 1)
	assert.Equal(t, KindSound, sound.got[0].Kind)
	assert.Equal(t, "s1", sound.got[0].ServerID)

	require.Len(t, desktop.got, 1)
	assert.Equal(t, "alice", desktop.got[0].Author)
	assert.Equal(t, "hello there friend", desktop.got[0].Body)
	assert.Equal(t, msg.CreatedAt, desktop.got[0].At.UnixMilli())

	assert.Equal(t, 1, rec.counts["sound/sent"])
	assert.Equal(t, 1, rec.counts["desktop/sent"])
}

func TestDispatcherThrottles(t *testing.T) {
	sound, desktop := &captureSink{}, &captureSink{}
	rec := &countingRecorder{}
	d := NewDispatcher(enabledConfig(), sound, desktop, rec, nil)
	defer d.Close()

	for i := 0; i < 3; i++ {
		d.PlayMessageSound(message("c1", "hi"), "")
		d.DesktopNotification(message("c1", "hi"))
	}
	d.PlayMessageSound(message("c2", "hi"), "")
	d.DesktopNotification(message("c2", "hi"))

	assert.Len(t, sound.got, 2, "sound budget is shared")
	assert.Len(t, desktop.got, 3, "desktop budget is per channel")
	assert.Equal(t, 2, rec.counts["sound/throttled"])
	assert.Equal(t, 1, rec.counts["desktop/throttled"])
}

func TestDispatcherDesktopLimitOverride(t *testing.T) {
	cfg := enabledConfig()
	cfg.DesktopPerMinute = 1
	cfg.DesktopBurst = 1
	sound, desktop := &captureSink{}, &captureSink{}
	rec := &countingRecorder{}
	d := NewDispatcher(cfg, sound, desktop, rec, nil)
	defer d.Close()

	for i := 0; i < 2; i++ {
		d.PlayMessageSound(message("c1", "hi"), "")
		d.DesktopNotification(message("c1", "hi"))
	}

	assert.Len(t, sound.got, 2, "sound keeps the default burst")
	assert.Len(t, desktop.got, 1)
	assert.Equal(t, 1, rec.counts["desktop/throttled"])
}

func TestDispatcherDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Sound = false
	sound, desktop := &captureSink{}, &captureSink{}
	rec := &countingRecorder{}
	d := NewDispatcher(cfg, sound, desktop, rec, nil)
	defer d.Close()

	d.PlayMessageSound(message("c1", "hi"), "")
	d.DesktopNotification(message("c1", "hi"))
	assert.Empty(t, sound.got)
	assert.Len(t, desktop.got, 1)
	assert.Equal(t, 1, rec.counts["sound/disabled"])

	cfg.Enabled = false
	off := NewDispatcher(cfg, sound, desktop, rec, nil)
	defer off.Close()
	off.DesktopNotification(message("c1", "hi"))
	assert.Len(t, desktop.got, 1)
	assert.Equal(t, 1, rec.counts["desktop/disabled"])
}

func TestDispatcherSinkFailure(t *testing.T) {
	rec := &countingRecorder{}
	d := NewDispatcher(enabledConfig(), nil, &captureSink{err: errors.New("no display")}, rec, nil)
	defer d.Close()

	d.PlayMessageSound(message("c1", "hi"), "")
	d.DesktopNotification(message("c1", "hi"))

	assert.Equal(t, 1, rec.counts["sound/disabled"])
	assert.Equal(t, 1, rec.counts["desktop/failed"])
}

func TestDispatcherTripsFailingSink(t *testing.T) {
	cfg := enabledConfig()
	cfg.PerMinute = 0
	desktop := &captureSink{err: errors.New("no display")}
	rec := &countingRecorder{}
	d := NewDispatcher(cfg, nil, desktop, rec, nil)
	defer d.Close()

	for i := 0; i < sinkFailures+2; i++ {
		d.DesktopNotification(message("c1", "hi"))
	}

	assert.Equal(t, sinkFailures, rec.counts["desktop/failed"])
	assert.Equal(t, 2, rec.counts["desktop/tripped"])
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		msg   store.Message
		limit int
		want  string
	}{
		{"short", store.Message{Content: "hi"}, 10, "hi"},
		{"truncated", store.Message{Content: "abcdefghijklmnop"}, 10, "abcdefg..."},
		{"runes", store.Message{Content: "привет мир"}, 8, "приве..."},
		{"no limit", store.Message{Content: "abcdefghijklmnop"}, 0, "abcdefghijklmnop"},
		{"tiny limit", store.Message{Content: "abcdef"}, 2, "ab"},
		{"attachment", store.Message{Attachments: []store.Attachment{{ID: "a"}}}, 10, "sent an attachment"},
		{"attachments", store.Message{Attachments: []store.Attachment{{ID: "a"}, {ID: "b"}}}, 10, "sent attachments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.msg, tt.limit))
		})
	}
}

func TestTerminalSink(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	term := NewTerminal(&buf, timefmt.Fixed(now))

	require.NoError(t, term.Deliver(Notification{
		Author:    "alice",
		ChannelID: "c1",
		ServerID:  "s1",
		Body:      "hello",
		At:        time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, term.Deliver(Notification{
		Author:    "bob",
		ChannelID: "dm",
		Body:      "yo",
		At:        time.Date(2024, 3, 14, 9, 5, 0, 0, time.UTC),
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[14:30] alice in s1/c1: hello", lines[0])
	assert.Equal(t, "[Yesterday at 09:05] bob in dm: yo", lines[1])
}

func TestBellSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewBell(&buf).Deliver(Notification{}))
	assert.Equal(t, "\a", buf.String())
}
