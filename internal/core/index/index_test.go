package index

import (
	"reflect"
	"testing"
	"time"

	"github.com/example/curator/internal/models"
)

func pathOf(s string) models.CanonicalPath {
	return models.ParsePath(s)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	x := New()
	x.Register(pathOf("#Inventory/Clothing/Corsets"), "uuid-1", time.Now())

	tests := []struct {
		name   string
		lookup string
		wantID string
		wantOK bool
	}{
		{"exact case", "#Inventory/Clothing/Corsets", "uuid-1", true},
		{"lower case", "#inventory/clothing/corsets", "uuid-1", true},
		{"mixed case", "#INVENTORY/Clothing/CORSETS", "uuid-1", true},
		{"missing path", "#Inventory/Clothing/Hair", "", false},
		{"prefix only", "#Inventory/Clothing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := x.Resolve(pathOf(tt.lookup))
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tt.lookup, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestRegisterSameIDTwiceIsNotACollision(t *testing.T) {
	x := New()
	p := pathOf("#Inventory/BDSM/Restraints")

	if ok := x.Register(p, "uuid-7", time.Now()); !ok {
		t.Fatal("first Register returned false")
	}
	if ok := x.Register(p, "uuid-7", time.Now()); !ok {
		t.Error("re-registering the same remote ID should not report a collision")
	}
	if x.HasCollision(p) {
		t.Error("HasCollision = true for a single remote ID")
	}
	if x.Len() != 1 {
		t.Errorf("Len = %d, want 1", x.Len())
	}
}

func TestRegisterCollisionKeepsFirstRegistration(t *testing.T) {
	x := New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := pathOf("#Inventory/Clothing/Hair")

	if ok := x.Register(p, "uuid-old", base); !ok {
		t.Fatal("first Register returned false")
	}
	if ok := x.Register(p, "uuid-new", base.Add(time.Minute)); ok {
		t.Error("second Register at an occupied path should return false")
	}

	id, ok := x.Resolve(p)
	if !ok || id != "uuid-old" {
		t.Errorf("Resolve after collision = (%q, %v), want (uuid-old, true)", id, ok)
	}
	if !x.HasCollision(p) {
		t.Error("HasCollision = false after conflicting registration")
	}
}

func TestCollisionsPreserveRegistrationOrder(t *testing.T) {
	x := New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-b", base)
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-a", base.Add(time.Second))
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-c", base.Add(2*time.Second))
	x.Register(pathOf("#Inventory/BDSM"), "uuid-z", base)

	groups := x.Collisions()
	if len(groups) != 1 {
		t.Fatalf("Collisions returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Path.String() != "#Inventory/Clothing/Hair" {
		t.Errorf("group path = %q, want #Inventory/Clothing/Hair", g.Path.String())
	}
	// The earliest registration stays first so the merge resolver can
	// pick it as the survivor.
	want := []string{"uuid-b", "uuid-a", "uuid-c"}
	if !reflect.DeepEqual(g.IDs, want) {
		t.Errorf("group IDs = %v, want %v", g.IDs, want)
	}
}

func TestCollisionsOrderedByPath(t *testing.T) {
	x := New()
	now := time.Now()

	x.Register(pathOf("#Inventory/Zoo"), "z1", now)
	x.Register(pathOf("#Inventory/Zoo"), "z2", now)
	x.Register(pathOf("#Inventory/Attic"), "a1", now)
	x.Register(pathOf("#Inventory/Attic"), "a2", now)

	groups := x.Collisions()
	if len(groups) != 2 {
		t.Fatalf("Collisions returned %d groups, want 2", len(groups))
	}
	if groups[0].Path.Leaf() != "Attic" || groups[1].Path.Leaf() != "Zoo" {
		t.Errorf("groups out of order: %q then %q", groups[0].Path.Leaf(), groups[1].Path.Leaf())
	}
}

func TestFindDuplicatesAcrossParents(t *testing.T) {
	x := New()
	now := time.Now()

	x.Register(pathOf("#Inventory/Clothing/HUDs"), "uuid-1", now)
	x.Register(pathOf("#Inventory/Objects/HUDs"), "uuid-2", now)
	x.Register(pathOf("#Inventory/BDSM/huds"), "uuid-3", now)
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-4", now)

	tests := []struct {
		name string
		leaf string
		want []string
	}{
		{"three parents share a leaf", "HUDs", []string{"uuid-1", "uuid-2", "uuid-3"}},
		{"case folded lookup", "huds", []string{"uuid-1", "uuid-2", "uuid-3"}},
		{"single occurrence is not a duplicate", "Hair", nil},
		{"unknown leaf", "Shoes", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.FindDuplicates(tt.leaf)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindDuplicates(%q) = %v, want %v", tt.leaf, got, tt.want)
			}
		})
	}
}

func TestRegistrationsPreserveOrderAndCollisions(t *testing.T) {
	x := New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	x.Register(pathOf("#Inventory/Clothing"), "uuid-c", base)
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-h1", base.Add(time.Second))
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-h2", base.Add(2*time.Second))
	// Re-registering known IDs must not grow the log.
	x.Register(pathOf("#Inventory/Clothing"), "uuid-c", base.Add(3*time.Second))
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-h2", base.Add(4*time.Second))

	regs := x.Registrations()
	if len(regs) != 3 {
		t.Fatalf("Registrations returned %d entries, want 3", len(regs))
	}
	wantIDs := []string{"uuid-c", "uuid-h1", "uuid-h2"}
	for i, want := range wantIDs {
		if regs[i].RemoteID != want {
			t.Errorf("registration %d ID = %q, want %q", i, regs[i].RemoteID, want)
		}
	}
	if regs[1].At != base.Add(time.Second) {
		t.Errorf("registration 1 At = %v, want %v", regs[1].At, base.Add(time.Second))
	}
}

func TestReplayRegistrationsReproducesIndex(t *testing.T) {
	x := New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	x.Register(pathOf("#Inventory/Objects/HUDs"), "uuid-1", base)
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-old", base.Add(time.Second))
	x.Register(pathOf("#Inventory/Clothing/Hair"), "uuid-new", base.Add(2*time.Second))

	replayed := New()
	for _, r := range x.Registrations() {
		replayed.Register(r.Path, r.RemoteID, r.At)
	}

	id, ok := replayed.Resolve(pathOf("#Inventory/Clothing/Hair"))
	if !ok || id != "uuid-old" {
		t.Errorf("replayed Resolve = (%q, %v), want (uuid-old, true)", id, ok)
	}
	got := replayed.Collisions()
	want := x.Collisions()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("replayed Collisions = %v, want %v", got, want)
	}
	if len(want) != 1 || !reflect.DeepEqual(want[0].IDs, []string{"uuid-old", "uuid-new"}) {
		t.Errorf("source Collisions = %v, want one group [uuid-old uuid-new]", want)
	}
}

func TestFindDuplicatesIncludesCollidingSiblings(t *testing.T) {
	x := New()
	now := time.Now()

	x.Register(pathOf("#Inventory/Clothing/HUDs"), "uuid-1", now)
	x.Register(pathOf("#Inventory/Clothing/HUDs"), "uuid-2", now)

	got := x.FindDuplicates("HUDs")
	want := []string{"uuid-1", "uuid-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindDuplicates(HUDs) = %v, want %v", got, want)
	}
}

func TestEntriesSortedByKey(t *testing.T) {
	x := New()
	now := time.Now()

	x.Register(pathOf("#Inventory/Objects"), "o", now)
	x.Register(pathOf("#Inventory/Clothing"), "c", now)
	x.Register(pathOf("#Inventory/BDSM"), "b", now)

	entries := x.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries returned %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Path.Key() > entries[i].Path.Key() {
			t.Errorf("entries not sorted: %q before %q", entries[i-1].Path, entries[i].Path)
		}
	}
}
