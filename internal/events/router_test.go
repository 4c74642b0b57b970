package events_test

import (
	"testing"
	"time"

	clienterrors "github.com/Alexander-D-Karpov/concord-client/internal/common/errors"
	"github.com/Alexander-D-Karpov/concord-client/internal/events"
	"github.com/Alexander-D-Karpov/concord-client/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	op     string
	result string
}

type fakeRecorder struct {
	seen []observation
}

func (r *fakeRecorder) ObserveEvent(op, result string, _ time.Duration) {
	r.seen = append(r.seen, observation{op: op, result: result})
}

func newRouter(t *testing.T) (*fixture, *events.Router, *fakeRecorder) {
	t.Helper()
	f := newFixture(t)
	rec := &fakeRecorder{}
	return f, events.NewRouter(f.handler, f.session, rec, nil), rec
}

func TestRouterHello(t *testing.T) {
	f, r, rec := newRouter(t)

	require.NoError(t, r.DispatchFrame([]byte(`{"op":"hello","d":{"socketId":"socket-new"}}`)))

	assert.Equal(t, "socket-new", f.session.SocketID())
	assert.Equal(t, []observation{{op: events.OpHello, result: events.ResultHandled}}, rec.seen)
}

func TestRouterMessageLifecycle(t *testing.T) {
	f, r, _ := newRouter(t)

	frames := []string{
		`{"op":"message:created","d":{"socketId":"socket-other","message":{"id":"m1","channelId":"room-1","createdBy":{"id":"user-alice","username":"alice"},"createdAt":1700000000000,"content":"hey","mentions":[{"id":"user-me"}],"attachments":[{"id":"a1"}]}}}`,
		`{"op":"message:reaction_added","d":{"messageId":"m1","channelId":"room-1","count":1,"reactedByUserId":"user-me","name":"👍"}}`,
		`{"op":"message:updated","d":{"channelId":"room-1","messageId":"m1","updated":{"content":"hey!","editedAt":1700000001000}}}`,
	}
	for _, frame := range frames {
		require.NoError(t, r.DispatchFrame([]byte(frame)))
	}

	msg, ok := f.store.Messages.Get(roomID, "m1")
	require.True(t, ok)
	assert.Equal(t, "hey!", msg.Content)
	assert.Equal(t, int64(1700000001000), msg.EditedAt)
	require.Len(t, msg.Reactions, 1)
	assert.True(t, msg.Reactions[0].Reacted)
	assert.Equal(t, 1, f.store.Mentions.Count(roomID))

	ch, _ := f.store.Channels.Get(roomID)
	assert.Equal(t, 1, *ch.AttachmentCount)

	require.NoError(t, r.DispatchFrame([]byte(`{"op":"message:deleted","d":{"channelId":"room-1","messageId":"m1","deletedAttachmentCount":1}}`)))

	_, ok = f.store.Messages.Get(roomID, "m1")
	assert.False(t, ok)
	ch, _ = f.store.Channels.Get(roomID)
	assert.Equal(t, 0, *ch.AttachmentCount)
}

func TestRouterDeletedBatch(t *testing.T) {
	f, r, _ := newRouter(t)
	f.store.Messages.Push(roomID, store.Message{ID: "m1", ChannelID: roomID, CreatedBy: store.User{ID: alice}, CreatedAt: 50})

	require.NoError(t, r.DispatchFrame([]byte(`{"op":"message:deleted_batch","d":{"userId":"user-alice","serverId":"server-1","fromTime":0,"toTime":100}}`)))

	assert.Empty(t, f.store.Messages.List(roomID))
}

func TestRouterUnknownOp(t *testing.T) {
	_, r, rec := newRouter(t)

	err := r.DispatchFrame([]byte(`{"op":"typing:start","d":{}}`))
	assert.ErrorIs(t, err, clienterrors.ErrUnknownOp)
	assert.Equal(t, []observation{{op: "typing:start", result: events.ResultIgnored}}, rec.seen)
}

func TestRouterMalformed(t *testing.T) {
	f, r, rec := newRouter(t)

	err := r.DispatchFrame([]byte(`not json`))
	assert.True(t, clienterrors.IsBadRequest(err))

	err = r.DispatchFrame([]byte(`{"op":"message:created","d":{"message":"oops"}}`))
	assert.True(t, clienterrors.IsBadRequest(err))

	err = r.DispatchFrame([]byte(`{"op":"message:deleted"}`))
	assert.True(t, clienterrors.IsBadRequest(err))

	assert.Empty(t, f.store.Messages.List(roomID))
	require.Len(t, rec.seen, 3)
	for _, o := range rec.seen {
		assert.Equal(t, events.ResultInvalid, o.result)
	}
}

func TestRouterRejectsIncompletePayloads(t *testing.T) {
	f, r, rec := newRouter(t)

	frames := []string{
		`{"op":"hello","d":{}}`,
		`{"op":"message:created","d":{"message":{"id":"m1"}}}`,
		`{"op":"message:reaction_added","d":{"channelId":"room-1","count":1,"name":"x"}}`,
		`{"op":"message:deleted_batch","d":{"userId":"user-alice","fromTime":0,"toTime":1}}`,
	}
	for _, frame := range frames {
		err := r.DispatchFrame([]byte(frame))
		assert.True(t, clienterrors.IsBadRequest(err), frame)
	}

	assert.Equal(t, "socket-me", f.session.SocketID())
	assert.Empty(t, f.store.Messages.List(roomID))
	require.Len(t, rec.seen, len(frames))
	for _, o := range rec.seen {
		assert.Equal(t, events.ResultInvalid, o.result)
	}
}

type panickingNotifier struct{}

func (panickingNotifier) PlayMessageSound(store.Message, string) { panic("sound device gone") }
func (panickingNotifier) DesktopNotification(store.Message)      {}

func TestRouterRecoversHandlerPanic(t *testing.T) {
	f := newFixture(t)
	rec := &fakeRecorder{}
	handler := events.NewStoreHandler(f.store, f.session, f.session, panickingNotifier{}, nil)
	r := events.NewRouter(handler, f.session, rec, nil)

	frame := `{"op":"message:created","d":{"socketId":"socket-other","message":{"id":"m1","channelId":"room-1","createdBy":{"id":"user-alice"},"createdAt":1}}}`
	err := r.DispatchFrame([]byte(frame))

	require.Error(t, err)
	assert.Equal(t, clienterrors.KindInternal, clienterrors.KindOf(err))
	assert.Equal(t, []observation{{op: events.OpMessageCreated, result: events.ResultFailed}}, rec.seen)

	_, ok := f.store.Messages.Get(roomID, "m1")
	assert.True(t, ok, "store mutations before the panic are kept")

	f.store.Mentions.Set(store.Mention{ChannelID: dmID, Count: 1})
	assert.NotEmpty(t, f.changes, "observers still fire after a recovered panic")
}

func TestRouterReadySeedsStores(t *testing.T) {
	f := newFixture(t)
	rec := &fakeRecorder{}
	fresh := store.New()
	handler := events.NewStoreHandler(fresh, f.session, f.session, f.notifier, nil)
	r := events.NewRouter(handler, f.session, rec, nil)

	ready := `{"op":"ready","d":{
		"user":{"id":"user-me","username":"me"},
		"servers":[{"id":"server-1","createdById":"user-owner","members":[
			{"userId":"user-owner"},
			{"userId":"user-alice","permissions":0},
			{"userId":"user-mod","permissions":64}
		]}],
		"channels":[{"id":"room-1","serverId":"server-1"},{"id":"dm-1","recipient":{"id":"user-bob"}}],
		"friends":[{"userId":"user-troll","status":4}]
	}}`
	require.NoError(t, r.DispatchFrame([]byte(ready)))

	plain := func(id, author string) string {
		return `{"op":"message:created","d":{"socketId":"socket-other","message":{"id":"` + id +
			`","channelId":"room-1","createdBy":{"id":"` + author + `"},"createdAt":1,"content":"hi [@:e]"}}}`
	}
	require.NoError(t, r.DispatchFrame([]byte(plain("m1", "user-alice"))))
	require.NoError(t, r.DispatchFrame([]byte(plain("m2", "user-alice"))))
	assert.Equal(t, 0, fresh.Mentions.Count(roomID), "everyone marker without permission in a server room")

	require.NoError(t, r.DispatchFrame([]byte(plain("m3", "user-mod"))))
	require.NoError(t, r.DispatchFrame([]byte(plain("m4", "user-owner"))))
	assert.Equal(t, 2, fresh.Mentions.Count(roomID))

	desktops := len(f.notifier.desktops)
	require.NoError(t, r.DispatchFrame([]byte(`{"op":"message:created","d":{"socketId":"socket-other","message":{"id":"m5","channelId":"dm-1","createdBy":{"id":"user-troll"},"createdAt":1}}}`)))
	assert.Equal(t, 0, fresh.Mentions.Count(dmID), "blocked author")
	assert.Len(t, f.notifier.desktops, desktops)

	_, ok := fresh.Users.Get("user-me")
	assert.True(t, ok)
	assert.Equal(t, events.ResultHandled, rec.seen[0].result)
}

func TestRouterReadyReplacesPreviousSnapshot(t *testing.T) {
	f, r, _ := newRouter(t)
	f.store.Mentions.Set(store.Mention{ChannelID: roomID, Count: 3})

	require.NoError(t, r.DispatchFrame([]byte(`{"op":"ready","d":{"user":{"id":"user-me"},"channels":[{"id":"room-2","serverId":"server-2"}]}}`)))

	_, ok := f.store.Channels.Get(roomID)
	assert.False(t, ok)
	_, ok = f.store.Channels.Get("room-2")
	assert.True(t, ok)
	assert.Equal(t, 3, f.store.Mentions.Count(roomID), "snapshot without mentions keeps local records")

	require.NoError(t, r.DispatchFrame([]byte(`{"op":"ready","d":{"user":{"id":"user-me"},"mentions":[]}}`)))
	assert.Zero(t, f.store.Mentions.Total())
}

func TestRouterReadyRequiresUser(t *testing.T) {
	_, r, _ := newRouter(t)

	err := r.DispatchFrame([]byte(`{"op":"ready","d":{"channels":[]}}`))
	assert.True(t, clienterrors.IsBadRequest(err))
}

func TestRouterRejectsNegativeDeletedAttachmentCount(t *testing.T) {
	f, r, _ := newRouter(t)
	count := 2
	f.store.Channels.SetAttachmentCount(roomID, count)

	err := r.DispatchFrame([]byte(`{"op":"message:deleted","d":{"channelId":"room-1","messageId":"m1","deletedAttachmentCount":-5}}`))
	assert.True(t, clienterrors.IsBadRequest(err))

	ch, _ := f.store.Channels.Get(roomID)
	assert.Equal(t, 2, *ch.AttachmentCount)
}
