package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alexander-D-Karpov/concord-client/internal/common/errors"
	"github.com/Alexander-D-Karpov/concord-client/internal/middleware"
	"go.uber.org/zap"
)

const (
	ResultHandled = "handled"
	ResultIgnored = "ignored"
	ResultInvalid = "invalid"
	ResultFailed  = "failed"
)

// Envelope is the frame every gateway event arrives in.
type Envelope struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d"`
}

type Recorder interface {
	ObserveEvent(op, result string, duration time.Duration)
}

type SocketIDSetter interface {
	SetSocketID(socketID string)
}

// Router decodes envelopes and hands the payload to the matching handler
// method. It is meant to be driven by a single goroutine.
type Router struct {
	handler  *Handler
	sockets  SocketIDSetter
	recorder Recorder
	logger   *zap.Logger
	routes   map[string]route
}

// route decodes and validates a payload, returning a handler bound to it.
type route func(json.RawMessage) (func(), error)

func NewRouter(handler *Handler, sockets SocketIDSetter, recorder Recorder, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		handler:  handler,
		sockets:  sockets,
		recorder: recorder,
		logger:   logger,
	}
	r.routes = map[string]route{
		OpHello: decodeInto(func(p Hello) {
			if r.sockets != nil {
				r.sockets.SetSocketID(p.SocketID)
			}
		}),
		OpReady:                  decodeInto(handler.OnReady),
		OpMessageCreated:         decodeInto(handler.OnMessageCreated),
		OpMessageUpdated:         decodeInto(handler.OnMessageUpdated),
		OpMessageDeleted:         decodeInto(handler.OnMessageDeleted),
		OpMessageDeletedBatch:    decodeInto(handler.OnMessageDeletedBatch),
		OpMessageReactionAdded:   decodeInto(handler.OnMessageReactionAdded),
		OpMessageReactionRemoved: decodeInto(handler.OnMessageReactionRemoved),
	}
	return r
}

// DispatchFrame decodes a raw gateway frame and dispatches it.
func (r *Router) DispatchFrame(frame []byte) error {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		r.observe("", ResultInvalid, 0)
		return errors.BadRequest("decode envelope", err)
	}
	return r.Dispatch(env)
}

func (r *Router) Dispatch(env Envelope) error {
	start := time.Now()

	decode, ok := r.routes[env.Op]
	if !ok {
		r.observe(env.Op, ResultIgnored, time.Since(start))
		r.logger.Debug("ignoring event", zap.String("op", env.Op))
		return fmt.Errorf("%w: %s", errors.ErrUnknownOp, env.Op)
	}

	apply, err := decode(env.Data)
	if err != nil {
		r.observe(env.Op, ResultInvalid, time.Since(start))
		r.logger.Warn("dropping malformed event", zap.String("op", env.Op), zap.Error(err))
		return errors.BadRequest("decode "+env.Op, err)
	}

	err = middleware.Recover(r.logger, env.Op, func() error {
		apply()
		return nil
	})
	if err != nil {
		r.observe(env.Op, ResultFailed, time.Since(start))
		return err
	}

	r.observe(env.Op, ResultHandled, time.Since(start))
	return nil
}

func (r *Router) observe(op, result string, d time.Duration) {
	if r.recorder != nil {
		r.recorder.ObserveEvent(op, result, d)
	}
}

func decodeInto[T any](fn func(T)) route {
	return func(data json.RawMessage) (func(), error) {
		var payload T
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if err := middleware.Validate(payload); err != nil {
			return nil, err
		}
		return func() { fn(payload) }, nil
	}
}
