package health

import (
	"errors"
	"testing"
)

func TestMemoryRegistry_Register(t *testing.T) {
	reg, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("NewMemoryRegistry() error = %v", err)
	}

	if err := reg.Register(upIndicator("b")); err != nil {
		t.Fatalf("Register(b) error = %v", err)
	}
	if err := reg.Register(upIndicator("a")); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("Names() = %v, want [b a]", names)
	}
	if len(reg.All()) != 2 {
		t.Errorf("len(All()) = %d, want 2", len(reg.All()))
	}
	if _, ok := reg.Find("a"); !ok {
		t.Error("Find(a) should succeed")
	}
}

func TestMemoryRegistry_RegisterInvalid(t *testing.T) {
	reg, _ := NewMemoryRegistry()

	tests := []struct {
		name string
		ind  Indicator
		want error
	}{
		{"nil", nil, ErrInvalidIndicator},
		{"empty name", upIndicator(""), ErrInvalidIndicator},
		{"panicking name", &faultyIndicator{panicName: true}, ErrInvalidIndicator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(tt.ind); !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemoryRegistry_Duplicate(t *testing.T) {
	_, err := NewMemoryRegistry(upIndicator("db"), downIndicator("db"))
	if !errors.Is(err, ErrDuplicateIndicator) {
		t.Errorf("error = %v, want ErrDuplicateIndicator", err)
	}
}

func TestMemoryRegistry_Unregister(t *testing.T) {
	reg, _ := NewMemoryRegistry(upIndicator("a"), upIndicator("b"))

	reg.Unregister("a")
	reg.Unregister("missing")

	names := reg.Names()
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("Names() = %v, want [b]", names)
	}
	if _, ok := reg.Find("a"); ok {
		t.Error("Find(a) should fail after Unregister")
	}
}

func TestMemoryRegistry_AllReturnsCopy(t *testing.T) {
	reg, _ := NewMemoryRegistry(upIndicator("a"))

	all := reg.All()
	all[0] = nil

	if reg.All()[0] == nil {
		t.Error("All() must return a copy")
	}
}

func TestIndicatorList_Find(t *testing.T) {
	list := IndicatorList{nil, upIndicator("a"), downIndicator("a")}

	ind, ok := list.Find("a")
	if !ok {
		t.Fatal("Find(a) should succeed")
	}
	if ind != list[1] {
		t.Error("Find should return the first match")
	}
	if _, ok := list.Find("b"); ok {
		t.Error("Find(b) should fail")
	}
}
