// Package notify turns incoming messages into sound and desktop
// notifications, throttled per kind.
package notify

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Alexander-D-Karpov/concord-client/internal/circuitbreaker"
	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/Alexander-D-Karpov/concord-client/internal/ratelimit"
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"go.uber.org/zap"
)

type Kind string

const (
	KindSound   Kind = "sound"
	KindDesktop Kind = "desktop"
)

const (
	ResultSent      = "sent"
	ResultThrottled = "throttled"
	ResultDisabled  = "disabled"
	ResultFailed    = "failed"
	ResultTripped   = "tripped"
)

// A sink that fails this many times in a row is skipped for sinkCooldown.
const (
	sinkFailures = 3
	sinkCooldown = 30 * time.Second
)

type Notification struct {
	Kind      Kind
	MessageID string
	ChannelID string
	ServerID  string
	Author    string
	Body      string
	At        time.Time
}

type Sink interface {
	Deliver(n Notification) error
}

type Recorder interface {
	ObserveNotification(kind, result string)
}

type Dispatcher struct {
	cfg      config.NotificationConfig
	sound    Sink
	desktop  Sink
	limiter  *ratelimit.Limiter
	breakers map[Kind]*circuitbreaker.CircuitBreaker
	recorder Recorder
	logger   *zap.Logger
}

func NewDispatcher(cfg config.NotificationConfig, sound, desktop Sink, recorder Recorder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := ratelimit.LimitConfig{PerMinute: cfg.PerMinute, Burst: cfg.Burst}
	limiter := ratelimit.NewLimiter(limit, cfg.PerMinute > 0)
	if cfg.DesktopPerMinute > 0 {
		burst := cfg.DesktopBurst
		if burst <= 0 {
			burst = cfg.Burst
		}
		limiter.SetLimit(string(KindDesktop), ratelimit.LimitConfig{PerMinute: cfg.DesktopPerMinute, Burst: burst})
	}

	return &Dispatcher{
		cfg:      cfg,
		sound:    sound,
		desktop:  desktop,
		limiter:  limiter,
		breakers: map[Kind]*circuitbreaker.CircuitBreaker{
			KindSound:   circuitbreaker.New(sinkFailures, sinkCooldown),
			KindDesktop: circuitbreaker.New(sinkFailures, sinkCooldown),
		},
		recorder: recorder,
		logger:   logger,
	}
}

func (d *Dispatcher) Close() {
	d.limiter.Close()
}

// PlayMessageSound shares one budget across all channels.
func (d *Dispatcher) PlayMessageSound(msg store.Message, serverID string) {
	n := d.build(KindSound, msg)
	n.ServerID = serverID
	d.deliver(d.cfg.Sound, d.sound, string(KindSound), n)
}

// DesktopNotification is throttled per channel.
func (d *Dispatcher) DesktopNotification(msg store.Message) {
	d.deliver(d.cfg.Desktop, d.desktop, string(KindDesktop)+":"+msg.ChannelID, d.build(KindDesktop, msg))
}

func (d *Dispatcher) deliver(enabled bool, sink Sink, key string, n Notification) {
	if !d.cfg.Enabled || !enabled || sink == nil {
		d.observe(n.Kind, ResultDisabled)
		return
	}

	if !d.limiter.Allow(key) {
		d.observe(n.Kind, ResultThrottled)
		d.logger.Debug("notification throttled",
			zap.String("kind", string(n.Kind)),
			zap.String("channel_id", n.ChannelID),
		)
		return
	}

	breaker := d.breakers[n.Kind]
	err := breaker.Call(func() error { return sink.Deliver(n) })
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		d.observe(n.Kind, ResultTripped)
		return
	}
	if err != nil {
		d.observe(n.Kind, ResultFailed)
		d.logger.Warn("notification failed",
			zap.String("kind", string(n.Kind)),
			zap.String("message_id", n.MessageID),
			zap.Stringer("breaker", breaker.GetState()),
			zap.Error(err),
		)
		return
	}

	d.observe(n.Kind, ResultSent)
}

func (d *Dispatcher) observe(kind Kind, result string) {
	if d.recorder != nil {
		d.recorder.ObserveNotification(string(kind), result)
	}
}

func (d *Dispatcher) build(kind Kind, msg store.Message) Notification {
	return Notification{
		Kind:      kind,
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		Author:    displayName(msg.CreatedBy),
		Body:      Preview(msg, d.cfg.PreviewLength),
		At:        time.UnixMilli(msg.CreatedAt),
	}
}

func displayName(u store.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}

// Preview flattens the message content to one line of at most limit runes.
// Attachment-only messages get a placeholder.
func Preview(msg store.Message, limit int) string {
	body := strings.Join(strings.Fields(msg.Content), " ")
	if body == "" && len(msg.Attachments) > 0 {
		if len(msg.Attachments) == 1 {
			return "sent an attachment"
		}
		return "sent attachments"
	}

	if limit <= 0 || utf8.RuneCountInString(body) <= limit {
		return body
	}
	runes := []rune(body)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
