package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGameHooks{}
	g.OnSpawn("L", 1)
	g.OnSpawnRefused("limit")
	g.OnCommit("T", 1, 2, 1, 100, 100)
	g.OnReject("Square", 8, 8)
	g.OnGameOver(300, 12, 3)

	s := NoopStoreHooks{}
	s.OnScoreSaved(ctx, "file", 100)
	s.OnStoreError(ctx, "redis", "add", nil)

	h := NoopHTTPHooks{}
	h.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
}

func TestMulti(t *testing.T) {
	if _, ok := Multi().(NoopGameHooks); !ok {
		t.Error("Multi() should return NoopGameHooks")
	}
	if _, ok := Multi(nil, nil).(NoopGameHooks); !ok {
		t.Error("Multi(nil, nil) should return NoopGameHooks")
	}

	single := &Recorder{}
	if Multi(single) != GameHooks(single) {
		t.Error("Multi with one hook should return it unchanged")
	}

	a, b := &Recorder{}, &Recorder{}
	m := Multi(a, nil, b)
	m.OnSpawn("L", 1)
	m.OnCommit("L", 0, 0, 2, 200, 200)
	m.OnGameOver(200, 1, 2)

	for i, r := range []*Recorder{a, b} {
		snap := r.Snapshot()
		if snap.Spawns != 1 || snap.Lines != 2 || snap.GameOvers != 1 {
			t.Errorf("recorder %d = %+v", i, snap)
		}
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.OnSpawn("L", 1)
	r.OnSpawn("L", 2)
	r.OnSpawn("T", 2)
	r.OnSpawnRefused("limit")
	r.OnReject("T", 9, 9)
	r.OnCommit("L", 0, 0, 0, 0, 0)

	snap := r.Snapshot()
	if snap.Spawns != 3 || snap.Refusals != 1 || snap.Rejects != 1 || snap.Commits != 1 {
		t.Errorf("Snapshot() = %+v", snap)
	}
	if snap.ByKind["L"] != 2 || snap.ByKind["T"] != 1 {
		t.Errorf("ByKind = %v", snap.ByKind)
	}

	snap.ByKind["L"] = 99
	if r.Snapshot().ByKind["L"] != 2 {
		t.Error("Snapshot shares ByKind map with recorder")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	h := NewLogHooks(l)

	h.OnSpawn("L", 1)
	h.OnCommit("T", 0, 0, 2, 200, 200)
	h.OnGameOver(200, 3, 2)
	h.OnStoreError(context.Background(), "redis", "add", errors.New("refused"))

	out := buf.String()
	if strings.Contains(out, "spawn") {
		t.Errorf("debug event logged at info level: %q", out)
	}
	for _, want := range []string{"lines cleared", "game over", "refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
