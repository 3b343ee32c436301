package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-crisis/internal/session"
)

func startServer(t *testing.T) *NatsServer {
	t.Helper()

	srv, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-errCh:
		cancel()
		t.Fatalf("server exited: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("server not ready")
	}

	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return srv
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func startRelay(t *testing.T, r *Relay) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	waitFor(t, "relay connection", func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.conn != nil && r.conn.IsConnected()
	})
}

func snapshot(phase session.Phase, entries ...string) session.Snapshot {
	s := session.Snapshot{
		Params:         session.Params{RoomID: "12345", RoomName: "Night shift", Username: "amy"},
		Phase:          phase,
		CrisisScore:    50,
		CurrentPlayers: 2,
	}
	for _, e := range entries {
		s.Log = append(s.Log, session.Entry{Text: e, Origin: session.OriginSystem})
	}
	return s
}

func TestSubject(t *testing.T) {
	testutil.AssertEqual(t, "subject", Subject("crisis.rooms", "12345"), "crisis.rooms.12345")
}

func TestFrameFor(t *testing.T) {
	tests := map[string]struct {
		snap   session.Snapshot
		last   published
		expOk  bool
		expOff int
		expLen int
	}{
		"first entries": {
			snap:   snapshot(session.PhaseWaitingForAdmin, "Hey! 👋", "Ready to play? Let's go! 🎮"),
			expOk:  true,
			expLen: 2,
		},
		"nothing new": {
			snap: snapshot(session.PhaseWaitingForAdmin, "Hey! 👋"),
			last: published{entries: 1, phase: session.PhaseWaitingForAdmin},
		},
		"new entry": {
			snap:   snapshot(session.PhaseWaitingForAdmin, "a", "b", "c"),
			last:   published{entries: 2, phase: session.PhaseWaitingForAdmin},
			expOk:  true,
			expOff: 2,
			expLen: 1,
		},
		"phase change only": {
			snap:   snapshot(session.PhaseInRound, "a"),
			last:   published{entries: 1, phase: session.PhaseBriefing},
			expOk:  true,
			expOff: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, ok := frameFor(tt.snap, tt.last)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if !ok {
				return
			}
			testutil.AssertEqual(t, "offset", f.Offset, tt.expOff)
			testutil.AssertEqual(t, "entries", len(f.Entries), tt.expLen)
			testutil.AssertEqual(t, "phase", f.Phase, tt.snap.Phase.String())
		})
	}
}

func TestRelay_Publishes(t *testing.T) {
	srv := startServer(t)

	sub, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer sub.Close()

	msgs := make(chan *nats.Msg, 8)
	if _, err := sub.ChanSubscribe(Subject("test.rooms", "12345"), msgs); err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flushing: %v", err)
	}

	r := NewRelay(srv.ClientURL(), WithSubjectPrefix("test.rooms"), WithClientName("relay-test"))
	startRelay(t, r)

	r.Observe(snapshot(session.PhaseWaitingForAdmin, "Hey! 👋", "Ready to play? Let's go! 🎮"))
	r.Observe(snapshot(session.PhaseWaitingForAdmin, "Hey! 👋", "Ready to play? Let's go! 🎮"))
	r.Observe(snapshot(session.PhaseWaitingForAdmin, "Hey! 👋", "Ready to play? Let's go! 🎮", "bob has joined the room"))

	var offsets []int
	var texts []string
	for range 2 {
		select {
		case msg := <-msgs:
			var f Frame
			if err := json.Unmarshal(msg.Data, &f); err != nil {
				t.Fatalf("decoding frame: %v", err)
			}
			offsets = append(offsets, f.Offset)
			for _, e := range f.Entries {
				texts = append(texts, e.Text)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}

	if diff := cmp.Diff([]int{0, 2}, offsets); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Hey! 👋", "Ready to play? Let's go! 🎮", "bob has joined the room"}, texts); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	select {
	case msg := <-msgs:
		t.Errorf("unexpected frame: %s", msg.Data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelay_DropsWithoutConnection(t *testing.T) {
	r := NewRelay("nats://127.0.0.1:1")
	r.Observe(snapshot(session.PhaseConnecting, "Hey! 👋"))
	testutil.AssertEqual(t, "rooms tracked", len(r.rooms), 0)
}

func TestWatcher_Render(t *testing.T) {
	w := NewWatcher("", "12345", nil, WithWidth(25))

	got := w.render(Frame{
		RoomID:      "12345",
		RoomName:    "Night shift",
		Phase:       "in_round",
		CrisisScore: 50,
		Players:     2,
		Entries: []session.Entry{
			{Text: "The ward is flooding and the lights are out", Origin: session.OriginAI},
			{Text: "Grab the torches", Origin: session.OriginPlayer},
		},
	})
	exp := "── Night shift (12345): in round, 2 players, crisis [█████░░░░░] 50/100\n" +
		"AI │ The ward is flooding\n" +
		"     and the lights are\n" +
		"     out\n" +
		" > │ Grab the torches\n"
	testutil.AssertEqual(t, "render", got, exp)

	again := w.render(Frame{RoomID: "12345", Phase: "in_round", Entries: []session.Entry{{Text: "ok", Origin: session.OriginSystem}}})
	testutil.AssertEqual(t, "no repeated status", again, "   │ ok\n")
}

func TestWatcher_RenderResults(t *testing.T) {
	w := NewWatcher("", "", nil)
	got := w.render(Frame{
		RoomID: "12345",
		Phase:  "game_ended",
		Results: &session.GameResults{Players: []session.PlayerResult{
			{Username: "bob", TotalScore: 80, Rank: 1},
			{Username: "amy", TotalScore: 60, Rank: 2},
		}},
	})
	if !strings.HasSuffix(got, "  #1 bob 80\n  #2 amy 60\n") {
		t.Errorf("unexpected results rendering:\n%s", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcher_FollowsRelay(t *testing.T) {
	srv := startServer(t)

	out := &syncBuffer{}
	w := NewWatcher(srv.ClientURL(), "12345", out, WithWatchPrefix("test.rooms"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watcher: %v", err)
		}
	}()
	waitFor(t, "watcher subscription", func() bool {
		return srv.ns.GlobalAccount().SubscriptionInterest(Subject("test.rooms", "12345"))
	})

	r := NewRelay(srv.ClientURL(), WithSubjectPrefix("test.rooms"))
	startRelay(t, r)
	r.Observe(snapshot(session.PhaseWaitingForAdmin, "Hey! 👋"))

	waitFor(t, "watcher output", func() bool { return strings.Contains(out.String(), "Hey! 👋") })
	if !strings.Contains(out.String(), "Night shift (12345): waiting for admin") {
		t.Errorf("missing status line:\n%s", out.String())
	}
}
