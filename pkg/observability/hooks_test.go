package observability

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/waypoints/pkg/waypoint"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLibraryHooks{}
	w := waypoint.New(1, 2, 3, "a", "")
	l.OnChange(Change{Op: OpAdd, Name: "a", Waypoint: &w, Count: 1})
	l.OnChange(Change{Op: OpClear, Count: 4})

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file:waypoints.json", 128, time.Millisecond, nil)
	s.OnSave(ctx, "file:waypoints.json", 128, time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Library().(NoopLibraryHooks); !ok {
		t.Error("Library() should return NoopLibraryHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customLibrary := &testLibraryHooks{}
	SetLibraryHooks(customLibrary)
	if Library() != customLibrary {
		t.Error("SetLibraryHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Library().(NoopLibraryHooks); !ok {
		t.Error("Reset() should restore NoopLibraryHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLibraryHooks{}
	SetLibraryHooks(custom)
	SetLibraryHooks(nil)
	if Library() != custom {
		t.Error("SetLibraryHooks(nil) should keep the registered hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testLibraryHooks{}
	SetLibraryHooks(h)

	Library().OnChange(Change{Op: OpRemove, Name: "a", Count: 2})

	if len(h.changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(h.changes))
	}
	if h.changes[0].Op != OpRemove || h.changes[0].Count != 2 {
		t.Errorf("unexpected change: %+v", h.changes[0])
	}
}

type testLibraryHooks struct {
	changes []Change
}

func (h *testLibraryHooks) OnChange(c Change) { h.changes = append(h.changes, c) }

type testStoreHooks struct{ NoopStoreHooks }
