package monitor

import (
	"context"
	"reflect"
	"testing"

	"github.com/timvw/termsense/internal/model"
	"github.com/timvw/termsense/internal/mux"
	"github.com/timvw/termsense/internal/snapshot"
)

// fakeMux replays a scripted pane capture.
type fakeMux struct {
	content string
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) ListPanes(ctx context.Context, filter string) ([]mux.Pane, error) {
	return nil, nil
}

func (f *fakeMux) CapturePane(ctx context.Context, target string) (string, error) {
	return f.content, nil
}

func (f *fakeMux) PaneGeometry(ctx context.Context, target string) (mux.Geometry, error) {
	return mux.Geometry{}, context.DeadlineExceeded
}

func TestWatcher_TickLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMux{content: "$ make\n"}
	w := NewWatcher(fake, "main:0.0", 10, 30)

	// First tick: everything is new, a snapshot is taken, no diff yet.
	obs, err := w.Tick(ctx)
	if err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if obs.Skipped {
		t.Fatalf("first tick skipped")
	}
	if obs.Snapshot == nil {
		t.Fatalf("first tick: no snapshot")
	}
	if obs.Diff != nil {
		t.Errorf("first tick: got diff %+v, want nil", obs.Diff)
	}

	// Same content: the hash short-circuit skips snapshotting.
	obs, err = w.Tick(ctx)
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if !obs.Skipped {
		t.Errorf("second tick: not skipped on identical content")
	}
	if obs.Snapshot != nil {
		t.Errorf("second tick: snapshot taken despite unchanged hash")
	}
	if got := len(w.Manager().History(0)); got != 1 {
		t.Errorf("history length after skip: got %d, want 1", got)
	}

	// New output: a snapshot with a content diff.
	fake.content = "$ make\nCC  main.o\n"
	obs, err = w.Tick(ctx)
	if err != nil {
		t.Fatalf("third tick: %v", err)
	}
	if obs.Skipped || obs.Snapshot == nil || obs.Diff == nil {
		t.Fatalf("third tick: got %+v, want fresh snapshot and diff", obs)
	}
	if !obs.Diff.ContentChanged {
		t.Errorf("third tick: ContentChanged false")
	}
	if !reflect.DeepEqual(obs.NewLines, []string{"CC  main.o"}) {
		t.Errorf("NewLines: got %v", obs.NewLines)
	}
}

func TestWatcher_ClassifiesRefreshedContent(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMux{content: "$ sudo make install\n[sudo] password for tim: \n"}
	w := NewWatcher(fake, "main:0.0", 10, 30)

	obs, err := w.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if obs.State.Input.Type != model.InputPassword {
		t.Errorf("Input.Type: got %q, want %q", obs.State.Input.Type, model.InputPassword)
	}
}

func TestWatcher_ExternalStateReachesSnapshots(t *testing.T) {
	ctx := context.Background()
	fake := &fakeMux{content: "tim@dev:~$ \n"}
	w := NewWatcher(fake, "main:0.0", 10, 30)

	cwd := "/srv/app"
	cmd := "git pull"
	w.UpdateExternalState(snapshot.ExternalState{Cwd: &cwd, LastCommand: &cmd})

	obs, err := w.Tick(ctx)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if obs.Snapshot == nil {
		t.Fatalf("no snapshot taken")
	}
	if obs.Snapshot.Cwd != "/srv/app" || obs.Snapshot.LastCommand != "git pull" {
		t.Errorf("external state not carried: %+v", obs.Snapshot)
	}
}
