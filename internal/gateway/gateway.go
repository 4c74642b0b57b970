// Package gateway keeps a websocket connection to the chat server open and
// feeds every frame it receives, in order, to a dispatcher.
package gateway

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/config"
	"github.com/Alexander-D-Karpov/concord-client/internal/common/errors"
	"github.com/Alexander-D-Karpov/concord-client/internal/common/logging"
	"github.com/Alexander-D-Karpov/concord-client/internal/retry"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	HeaderSocketID = "X-Socket-Id"
	writeWait      = 10 * time.Second
)

type Dispatcher interface {
	DispatchFrame(frame []byte) error
}

type SocketIDSetter interface {
	SetSocketID(socketID string)
}

type Recorder interface {
	RecordReconnect()
	SetConnected(connected bool)
}

type Client struct {
	cfg        config.GatewayConfig
	dispatcher Dispatcher
	sockets    SocketIDSetter
	recorder   Recorder
	dialer     *websocket.Dialer
	logger     *zap.Logger

	connected atomic.Bool
	newID     func() string
}

func New(cfg config.GatewayConfig, dispatcher Dispatcher, sockets SocketIDSetter, recorder Recorder, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		dispatcher: dispatcher,
		sockets:    sockets,
		recorder:   recorder,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run connects and serves until ctx is cancelled. A dropped connection is
// re-dialled after a backoff when reconnect is enabled; otherwise the error
// that ended the connection is returned. The backoff grows while connections
// keep dying young and resets once one has stayed up for StableAfter.
func (c *Client) Run(ctx context.Context) error {
	policy := retry.FromGateway(c.cfg)
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		if c.recorder != nil {
			c.recorder.RecordReconnect()
		}
		c.logger.Warn("gateway dial failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	drops := newDropBackoff(policy, c.cfg.StableAfter)

	for {
		var (
			conn     *websocket.Conn
			socketID string
		)
		err := retry.WithBackoff(ctx, policy, func() error {
			var dialErr error
			conn, socketID, dialErr = c.dial(ctx)
			return dialErr
		})
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gateway connect: %w", err)
		}

		connCtx := logging.WithSocketID(logging.WithLogger(ctx, c.logger), socketID)
		connectedAt := time.Now()
		err = c.serve(connCtx, conn, logging.FromContext(connCtx))
		if ctx.Err() != nil {
			return nil
		}
		if !c.cfg.Reconnect {
			return err
		}

		wait := drops.next(time.Since(connectedAt))
		c.logger.Warn("gateway connection lost",
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if c.recorder != nil {
			c.recorder.RecordReconnect()
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}

// dropBackoff paces redials after an established connection ends.
type dropBackoff struct {
	policy      retry.Config
	stableAfter time.Duration
	attempt     int
}

func newDropBackoff(policy retry.Config, stableAfter time.Duration) *dropBackoff {
	if stableAfter <= 0 {
		stableAfter = policy.MaxWait
	}
	return &dropBackoff{policy: policy, stableAfter: stableAfter}
}

func (d *dropBackoff) next(uptime time.Duration) time.Duration {
	if uptime >= d.stableAfter {
		d.attempt = 0
	}
	wait := retry.Delay(d.policy, d.attempt)
	d.attempt++
	return wait
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, string, error) {
	socketID := c.newID()

	header := http.Header{}
	header.Set(HeaderSocketID, socketID)
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, "", retry.Permanent(errors.Unavailable(fmt.Sprintf("gateway rejected credentials (%d)", resp.StatusCode), err))
		}
		return nil, "", errors.Unavailable("dial gateway", err)
	}

	if c.sockets != nil {
		c.sockets.SetSocketID(socketID)
	}
	c.logger.Info("gateway connected", zap.String("url", c.cfg.URL), zap.String("socket_id", socketID))

	return conn, socketID, nil
}

// serve owns conn until it fails or ctx ends. Frames are dispatched on this
// goroutine only, so handlers never run concurrently.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn, log *zap.Logger) error {
	c.setConnected(true)
	defer c.setConnected(false)

	done := make(chan struct{})
	var wg sync.WaitGroup
	defer func() {
		close(done)
		_ = conn.Close()
		wg.Wait()
	}()

	if c.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(c.cfg.MaxMessageSize)
	}
	if err := c.extendDeadline(conn); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return c.extendDeadline(conn)
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.keepalive(ctx, conn, done, log)
	}()

	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || ctx.Err() != nil {
				return fmt.Errorf("%w: %w", errors.ErrClosed, err)
			}
			return errors.Unavailable("read gateway frame", err)
		}

		if err := c.extendDeadline(conn); err != nil {
			return err
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		if err := c.dispatcher.DispatchFrame(frame); err != nil {
			if stderrors.Is(err, errors.ErrUnknownOp) {
				log.Debug("unhandled gateway op", zap.Error(err))
				continue
			}
			log.Warn("skipping gateway frame", zap.Error(err))
		}
	}
}

// keepalive pings on an interval and closes the connection politely when ctx
// ends, which unblocks the reader.
func (c *Client) keepalive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}, log *zap.Logger) {
	var tick <-chan time.Time
	if c.cfg.PingInterval > 0 {
		ticker := time.NewTicker(c.cfg.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-done:
			return
		case <-tick:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("gateway ping failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client shutdown")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = conn.Close()
			return
		}
	}
}

func (c *Client) extendDeadline(conn *websocket.Conn) error {
	if c.cfg.ReadTimeout <= 0 {
		return nil
	}
	return conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
}

func (c *Client) setConnected(v bool) {
	c.connected.Store(v)
	if c.recorder != nil {
		c.recorder.SetConnected(v)
	}
}
