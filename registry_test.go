package console

import (
	"errors"
	"sync"
	"testing"
)

func noop(Log) error { return nil }

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("double", "Double", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("triple", "", noop); err != nil {
		t.Fatalf("register: %v", err)
	}

	if h, err := reg.Resolve("double"); err != nil || h == nil {
		t.Fatalf("resolve double: handler=%v err=%v", h, err)
	}

	e, ok := reg.Lookup("triple")
	if !ok {
		t.Fatal("expected triple to be registered")
	}
	if e.DisplayName != "triple" {
		t.Errorf("expected display name to default to the id, got %q", e.DisplayName)
	}

	entries := reg.Entries()
	if len(entries) != 2 || entries[0].ID != "double" || entries[1].ID != "triple" {
		t.Errorf("expected entries in registration order, got %+v", entries)
	}
	if reg.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", reg.Len())
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("double", "Double", noop)

	err := reg.Register("double", "Again", noop)
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateIDError, got %v", err)
	}
	if dup.ID != "double" {
		t.Errorf("expected id double, got %q", dup.ID)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected error to match ErrDuplicateID")
	}

	e, _ := reg.Lookup("double")
	if e.DisplayName != "Double" {
		t.Errorf("duplicate registration replaced the entry: %+v", e)
	}
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("double", "", noop)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuplicateID) {
			t.Fatalf("expected duplicate id panic, got %v", r)
		}
	}()
	reg.MustRegister("double", "", noop)
}

func TestRegistryUnknownDemo(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("nonexistent")

	var unknown *UnknownDemoError
	if !errors.As(err, &unknown) || unknown.ID != "nonexistent" {
		t.Fatalf("expected *UnknownDemoError for nonexistent, got %v", err)
	}
	if !errors.Is(err, ErrUnknownDemo) {
		t.Errorf("expected error to match ErrUnknownDemo")
	}
	if err.Error() != "unknown demo 'nonexistent'" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRegistryInvalidEntry(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("", "Empty", noop); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for empty id, got %v", err)
	}
	if err := reg.Register("nil", "Nil", nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for nil handler, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("invalid entries were registered")
	}
}

func TestRegistrySeal(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("double", "", noop)

	if !reg.Seal() {
		t.Fatal("expected first Seal to report a state change")
	}
	if reg.Seal() {
		t.Error("expected second Seal to be a no-op")
	}
	if !reg.Sealed() {
		t.Error("expected registry to be sealed")
	}
	if err := reg.Register("triple", "", noop); !errors.Is(err, ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
	if _, err := reg.Resolve("double"); err != nil {
		t.Errorf("sealed registry must still resolve: %v", err)
	}
}

func TestRegistryConcurrentResolve(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("double", "", noop)
	reg.Seal()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := reg.Resolve("double"); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
