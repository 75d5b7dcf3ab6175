package orch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/airbandhq/airband/internal/adapters/store/memstore"
	"github.com/airbandhq/airband/internal/app"
	"github.com/airbandhq/airband/internal/core"
	"github.com/airbandhq/airband/internal/domain"
)

// fakeConn records everything the orchestrator sends to a session.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
	reject bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reject {
		return errors.New("backpressure")
	}
	if c.closed {
		return errors.New("closed")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var ev map[string]any
		if err := json.Unmarshal(f, &ev); err != nil {
			t.Fatalf("bad frame %q: %v", f, err)
		}
		out = append(out, ev)
	}
	return out
}

func (c *fakeConn) lastOfType(t *testing.T, typ string) map[string]any {
	t.Helper()
	var found map[string]any
	for _, ev := range c.events(t) {
		if ev["type"] == typ {
			found = ev
		}
	}
	return found
}

func (c *fakeConn) countOfType(t *testing.T, typ string) int {
	t.Helper()
	n := 0
	for _, ev := range c.events(t) {
		if ev["type"] == typ {
			n++
		}
	}
	return n
}

func newTestOrchestrator() *Orchestrator {
	return &Orchestrator{
		Registry:      app.NewRegistry(),
		Rooms:         app.NewRooms(memstore.New(), 24*time.Hour),
		Presence:      app.NewPresence(),
		Speaker:       app.NewSpeaker(),
		Policy:        app.SimplePolicy{},
		MaxFrameBytes: 1 << 20,
	}
}

func createAndJoin(t *testing.T, o *Orchestrator, sid domain.SessionID, conn *fakeConn) (domain.RoomID, string) {
	t.Helper()
	ctx := context.Background()
	o.Connect(sid, conn)
	o.CreateRoom(ctx, sid)
	created := conn.lastOfType(t, "room_created")
	if created == nil {
		t.Fatalf("no room_created event")
	}
	roomID := domain.RoomID(created["roomId"].(string))
	secret := created["hostSecret"].(string)
	o.Join(ctx, sid, roomID, secret)
	return roomID, secret
}

func TestRoundTripScenario(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, _ := createAndJoin(t, o, "host", host)

	joined := host.lastOfType(t, "joined_success")
	if joined == nil || joined["isHost"] != true {
		t.Fatalf("creator joining with its secret should be host, got %v", joined)
	}

	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")

	gj := guest.lastOfType(t, "joined_success")
	if gj == nil || gj["isHost"] != false {
		t.Fatalf("tokenless join should not be host, got %v", gj)
	}
	allUsers, _ := gj["allUsers"].([]any)
	if len(allUsers) != 1 || allUsers[0] != "host" {
		t.Fatalf("guest should see [host] as prior members, got %v", allUsers)
	}
	uj := host.lastOfType(t, "user_joined")
	if uj == nil || uj["userId"] != "guest" {
		t.Fatalf("host should hear user_joined for guest, got %v", uj)
	}
	counts := guest.lastOfType(t, "update_user_count")
	if counts == nil || counts["count"] != float64(2) {
		t.Fatalf("joiner should observe count 2, got %v", counts)
	}

	// Host takes the channel; only the guest is told.
	o.StartTalking("host", roomID)
	busy := guest.lastOfType(t, "channel_busy")
	if busy == nil || busy["holder"] != "host" {
		t.Fatalf("guest should hear channel_busy{host}, got %v", busy)
	}
	if host.countOfType(t, "channel_busy") != 0 {
		t.Fatalf("acquirer already knows the outcome and must not be notified")
	}

	// Voice from the non-holder is dropped; from the holder it flows.
	if err := o.Voice("guest", roomID, json.RawMessage(`"zzz"`)); err != nil {
		t.Fatalf("non-holder voice should be a silent no-op, got %v", err)
	}
	if host.countOfType(t, "play_audio") != 0 {
		t.Fatalf("non-holder voice must not reach the room")
	}
	if err := o.Voice("host", roomID, json.RawMessage(`"abc"`)); err != nil {
		t.Fatalf("holder voice: %v", err)
	}
	pa := guest.lastOfType(t, "play_audio")
	if pa == nil || pa["userId"] != "host" {
		t.Fatalf("guest should receive play_audio from host, got %v", pa)
	}

	// Host drops; the guest hears the channel free up and the departure.
	o.Disconnect("host")
	if guest.countOfType(t, "channel_free") != 1 {
		t.Fatalf("guest should hear channel_free on holder disconnect")
	}
	left := guest.lastOfType(t, "user_left")
	if left == nil || left["userId"] != "host" {
		t.Fatalf("guest should hear user_left for host, got %v", left)
	}
	if o.Presence.Count(roomID) != 1 {
		t.Fatalf("room should have 1 member left, got %d", o.Presence.Count(roomID))
	}

	// Disconnect cleanup runs exactly once.
	before := len(guest.events(t))
	o.Disconnect("host")
	if len(guest.events(t)) != before {
		t.Fatalf("repeated disconnect must not emit anything")
	}
}

func TestStopTalkingFreesChannel(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, _ := createAndJoin(t, o, "host", host)
	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")

	o.StartTalking("guest", roomID)
	o.StopTalking("host", roomID) // not the holder, must not free
	if _, held := o.Speaker.Holder(roomID); !held {
		t.Fatalf("non-holder stop must not free the channel")
	}
	o.StopTalking("guest", roomID)
	if host.countOfType(t, "channel_free") != 1 {
		t.Fatalf("host should hear channel_free after holder stops")
	}
}

func TestStartTalkingRequiresMembership(t *testing.T) {
	o := newTestOrchestrator()
	host := &fakeConn{}
	outsider := &fakeConn{}

	roomID, _ := createAndJoin(t, o, "host", host)
	o.Connect("outsider", outsider)

	o.StartTalking("outsider", roomID)
	if _, held := o.Speaker.Holder(roomID); held {
		t.Fatalf("a non-member must not acquire the speaker lock")
	}
}

func TestDestroyScenario(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, secret := createAndJoin(t, o, "host", host)
	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")

	o.Destroy(ctx, "host", roomID, secret)

	if host.countOfType(t, "room_destroyed") != 1 || guest.countOfType(t, "room_destroyed") != 1 {
		t.Fatalf("all members should hear room_destroyed")
	}
	if o.Presence.Count(roomID) != 0 {
		t.Fatalf("destruction should evict all members")
	}

	// A later join must see the room as gone.
	late := &fakeConn{}
	o.Connect("late", late)
	o.Join(ctx, "late", roomID, "")
	errEv := late.lastOfType(t, "error_msg")
	if errEv == nil || errEv["code"] != CodeNotFound {
		t.Fatalf("join after destroy should be not_found, got %v", errEv)
	}
}

func TestDestroyUnauthorized(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, secret := createAndJoin(t, o, "host", host)
	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")

	o.Destroy(ctx, "guest", roomID, "bogus")

	errEv := guest.lastOfType(t, "error_msg")
	if errEv == nil || errEv["code"] != CodeUnauthorized {
		t.Fatalf("wrong secret should be unauthorized, got %v", errEv)
	}
	if host.countOfType(t, "room_destroyed") != 0 {
		t.Fatalf("failed destroy must not broadcast")
	}
	if isHost, err := o.Rooms.VerifyHost(ctx, roomID, secret); err != nil || !isHost {
		t.Fatalf("failed destroy must leave the record intact, isHost=%v err=%v", isHost, err)
	}
}

func TestAutoJoinCreator(t *testing.T) {
	o := newTestOrchestrator()
	o.AutoJoinCreator = true
	conn := &fakeConn{}

	o.Connect("s1", conn)
	o.CreateRoom(context.Background(), "s1")

	joined := conn.lastOfType(t, "joined_success")
	if joined == nil || joined["isHost"] != true {
		t.Fatalf("autojoin should land the creator in its room as host, got %v", joined)
	}
	roomID := domain.RoomID(conn.lastOfType(t, "room_created")["roomId"].(string))
	if !o.Presence.Contains(roomID, "s1") {
		t.Fatalf("creator should be a member after autojoin")
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	o := newTestOrchestrator()
	conn := &fakeConn{}
	o.Connect("s1", conn)

	o.Join(context.Background(), "s1", "99999999", "")
	errEv := conn.lastOfType(t, "error_msg")
	if errEv == nil || errEv["code"] != CodeNotFound {
		t.Fatalf("unknown room should be not_found, got %v", errEv)
	}
	if conn.countOfType(t, "joined_success") != 0 {
		t.Fatalf("failed join must not succeed")
	}
}

func TestJoinerToldOfActiveSpeaker(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, _ := createAndJoin(t, o, "host", host)
	o.StartTalking("host", roomID)

	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")
	busy := guest.lastOfType(t, "channel_busy")
	if busy == nil || busy["holder"] != "host" {
		t.Fatalf("joiner should learn the active speaker, got %v", busy)
	}
}

func TestOversizedFrameRejected(t *testing.T) {
	o := newTestOrchestrator()
	o.MaxFrameBytes = 8
	ctx := context.Background()
	host := &fakeConn{}
	guest := &fakeConn{}

	roomID, _ := createAndJoin(t, o, "host", host)
	o.Connect("guest", guest)
	o.Join(ctx, "guest", roomID, "")
	o.StartTalking("host", roomID)

	err := o.Voice("host", roomID, json.RawMessage(`"0123456789abcdef"`))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	if guest.countOfType(t, "play_audio") != 0 {
		t.Fatalf("oversized frame must not be relayed")
	}
	errEv := host.lastOfType(t, "error_msg")
	if errEv == nil || errEv["code"] != CodeTooLarge {
		t.Fatalf("sender should learn the frame was rejected, got %v", errEv)
	}
}

func TestSlowConsumerKicked(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()
	host := &fakeConn{}
	slow := &fakeConn{reject: true}

	roomID, _ := createAndJoin(t, o, "host", host)
	o.Connect("slow", slow)
	o.Join(ctx, "slow", roomID, "")
	o.StartTalking("host", roomID)

	if err := o.Voice("host", roomID, json.RawMessage(`"abc"`)); err != nil {
		t.Fatalf("voice: %v", err)
	}

	if o.Registry.Connected("slow") {
		t.Fatalf("a member that cannot drain frames should be kicked")
	}
	if o.Presence.Contains(roomID, "slow") {
		t.Fatalf("kicked member should leave the presence set")
	}
}

// disconnectingKV simulates the session dying while the store round trip for
// its join is in flight.
type disconnectingKV struct {
	core.KV
	o   *Orchestrator
	sid domain.SessionID
}

func (d *disconnectingKV) Get(ctx context.Context, key string) (string, error) {
	val, err := d.KV.Get(ctx, key)
	d.o.Disconnect(d.sid)
	return val, err
}

func TestJoinRevalidatesAfterStoreCall(t *testing.T) {
	mem := memstore.New()
	o := newTestOrchestrator()
	ctx := context.Background()

	host := &fakeConn{}
	o.Rooms = app.NewRooms(mem, 24*time.Hour)
	roomID, _ := createAndJoin(t, o, "host", host)

	victim := &fakeConn{}
	o.Connect("victim", victim)
	o.Rooms = app.NewRooms(&disconnectingKV{KV: mem, o: o, sid: "victim"}, 24*time.Hour)

	o.Join(ctx, "victim", roomID, "")

	if o.Presence.Contains(roomID, "victim") {
		t.Fatalf("a session that died mid-join must not enter the presence set")
	}
	if victim.countOfType(t, "joined_success") != 0 {
		t.Fatalf("a dead session must not be told it joined")
	}
	if o.Presence.Count(roomID) != 1 {
		t.Fatalf("room membership corrupted by dead join, count=%d", o.Presence.Count(roomID))
	}
}
