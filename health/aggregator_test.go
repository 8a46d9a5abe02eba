package health

import (
	"context"
	"errors"
	"testing"
)

func upIndicator(name string, attrs ...Attribute) *IndicatorFunc {
	return NewIndicatorFunc(name, func(ctx context.Context) (Status, error) {
		s := Up(name)
		for _, a := range attrs {
			s = s.With(a.Key, a.Value)
		}
		return s, nil
	})
}

func downIndicator(name string, attrs ...Attribute) *IndicatorFunc {
	return NewIndicatorFunc(name, func(ctx context.Context) (Status, error) {
		s := Down(name)
		for _, a := range attrs {
			s = s.With(a.Key, a.Value)
		}
		return s, nil
	})
}

func notApplicable(ind *IndicatorFunc) *IndicatorFunc {
	return ind.WithApplicability(func(context.Context) (bool, error) { return false, nil })
}

func childNames(s Status) []string {
	names := make([]string, 0)
	for _, c := range s.Children() {
		names = append(names, c.Name())
	}
	return names
}

func TestCheckAll_Empty(t *testing.T) {
	if _, ok := CheckAll(context.Background(), nil); ok {
		t.Error("CheckAll(nil) should be absent")
	}
}

func TestCheckAll_NoneApplicable(t *testing.T) {
	inds := []Indicator{
		notApplicable(upIndicator("a")),
		notApplicable(upIndicator("b")),
	}
	if _, ok := CheckAll(context.Background(), inds); ok {
		t.Error("CheckAll() should be absent when nothing is applicable")
	}
}

func TestCheckAll_SingleIsNotWrapped(t *testing.T) {
	s, ok := CheckAll(context.Background(), []Indicator{
		upIndicator("database", Attribute{"connection", "established"}),
	})
	if !ok {
		t.Fatal("CheckAll() absent, want status")
	}
	if s.IsAggregate() {
		t.Error("single contributor must not be wrapped")
	}
	if s.Name() != "database" || !s.Up() {
		t.Errorf("got %v, want database:up", s)
	}
	if v, _ := s.Attr("connection"); v != "established" {
		t.Errorf("connection = %v, want established", v)
	}
}

func TestCheckAll_AllUpSortedChildren(t *testing.T) {
	inds := []Indicator{
		upIndicator("zeta"),
		upIndicator("alpha"),
		upIndicator("mid"),
	}

	s, ok := CheckAll(context.Background(), inds)
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	if !s.Up() {
		t.Error("Up() = false, want true")
	}
	if !s.IsAggregate() {
		t.Fatal("want aggregated status")
	}

	got := childNames(s)
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCheckAll_OneDownMakesCompositeDown(t *testing.T) {
	inds := []Indicator{
		downIndicator("filesystem", Attribute{"freebytes", 500}),
		upIndicator("database", Attribute{"connection", "established"}),
	}

	s, ok := CheckAll(context.Background(), inds)
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	if s.Up() {
		t.Error("Up() = true, want false")
	}

	got := childNames(s)
	if len(got) != 2 || got[0] != "database" || got[1] != "filesystem" {
		t.Errorf("children = %v, want [database filesystem]", got)
	}
}

func TestCheckAll_ApplicabilityFaultExcludes(t *testing.T) {
	erroring := upIndicator("broken").WithApplicability(func(context.Context) (bool, error) {
		return true, errors.New("lookup failed")
	})
	panicking := upIndicator("crashy").WithApplicability(func(context.Context) (bool, error) {
		panic("nope")
	})

	s, ok := CheckAll(context.Background(), []Indicator{erroring, panicking, upIndicator("a"), upIndicator("b")})
	if !ok {
		t.Fatal("CheckAll() absent")
	}

	for _, name := range childNames(s) {
		if name == "broken" || name == "crashy" {
			t.Errorf("%q should be excluded from children", name)
		}
	}
	if len(s.Children()) != 2 {
		t.Errorf("len(children) = %d, want 2", len(s.Children()))
	}
}

func TestCheckAll_CheckFaultDoesNotStopOthers(t *testing.T) {
	var ranAfter bool
	after := NewIndicatorFunc("zz-after", func(context.Context) (Status, error) {
		ranAfter = true
		return Up("zz-after"), nil
	})
	failing := NewIndicatorFunc("aa-fail", func(context.Context) (Status, error) {
		panic("kaboom")
	})
	erroring := NewIndicatorFunc("mm-err", func(context.Context) (Status, error) {
		return Status{}, errors.New("timeout talking to db")
	})

	s, ok := CheckAll(context.Background(), []Indicator{after, failing, erroring})
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	if !ranAfter {
		t.Error("indicator after a faulting one was not evaluated")
	}
	if s.Up() {
		t.Error("composite should be down")
	}

	children := s.Children()
	for _, c := range children[:2] {
		if c.Up() {
			t.Errorf("%s should be down", c.Name())
		}
		msg, _ := c.Attr(AttrMessage)
		if str, _ := msg.(string); str == "" {
			t.Errorf("%s should carry a diagnostic message", c.Name())
		}
	}
}

func TestCheckAll_DeduplicatesByIdentity(t *testing.T) {
	calls := 0
	ind := NewIndicatorFunc("once", func(context.Context) (Status, error) {
		calls++
		return Up("once"), nil
	})

	s, ok := CheckAll(context.Background(), []Indicator{ind, ind, nil})
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	if calls != 1 {
		t.Errorf("indicator ran %d times, want 1", calls)
	}
	if s.IsAggregate() {
		t.Error("a deduplicated single indicator must not be wrapped")
	}
}

// valueIndicator has a comparable type whose meta may hold an unhashable value.
type valueIndicator struct {
	name string
	meta any
}

func (v valueIndicator) Name() string                               { return v.name }
func (v valueIndicator) IsApplicable(context.Context) (bool, error) { return true, nil }
func (v valueIndicator) Check(context.Context) (Status, error)      { return Up(v.name), nil }

// taggedIndicator has a non-comparable type.
type taggedIndicator struct {
	name string
	tags []string
}

func (v taggedIndicator) Name() string                               { return v.name }
func (v taggedIndicator) IsApplicable(context.Context) (bool, error) { return true, nil }
func (v taggedIndicator) Check(context.Context) (Status, error)      { return Up(v.name), nil }

func TestCheckAll_ValueIndicators(t *testing.T) {
	tests := []struct {
		name         string
		inds         []Indicator
		wantChildren []string
	}{
		{
			name: "unhashable dynamic field",
			inds: []Indicator{
				valueIndicator{name: "a", meta: []string{"x"}},
				valueIndicator{name: "b", meta: 1},
			},
			wantChildren: []string{"a", "b"},
		},
		{
			name: "equal unhashable values are kept",
			inds: []Indicator{
				valueIndicator{name: "a", meta: map[string]int{"x": 1}},
				valueIndicator{name: "a", meta: map[string]int{"x": 1}},
			},
			wantChildren: []string{"a", "a"},
		},
		{
			name: "non-comparable type",
			inds: []Indicator{
				taggedIndicator{name: "b", tags: []string{"x"}},
				taggedIndicator{name: "a"},
			},
			wantChildren: []string{"a", "b"},
		},
		{
			name: "equal hashable values are deduplicated",
			inds: []Indicator{
				valueIndicator{name: "a", meta: 1},
				valueIndicator{name: "a", meta: 1},
				valueIndicator{name: "c", meta: "x"},
			},
			wantChildren: []string{"a", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("CheckAll() panicked: %v", r)
				}
			}()

			s, ok := CheckAll(context.Background(), tt.inds)
			if !ok {
				t.Fatal("CheckAll() absent")
			}
			if !s.IsAggregate() {
				t.Fatalf("CheckAll() = %v, want aggregate", s)
			}
			got := childNames(s)
			if len(got) != len(tt.wantChildren) {
				t.Fatalf("children = %v, want %v", got, tt.wantChildren)
			}
			for i := range got {
				if got[i] != tt.wantChildren[i] {
					t.Errorf("children[%d] = %q, want %q", i, got[i], tt.wantChildren[i])
				}
			}
		})
	}
}

func TestCheckAll_NestedAggregateIsOpaqueChild(t *testing.T) {
	nested := NewIndicatorFunc("nested", func(context.Context) (Status, error) {
		return Aggregate(Up("x"), Up("y")), nil
	})

	s, ok := CheckAll(context.Background(), []Indicator{nested, upIndicator("a")})
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	children := s.Children()
	if len(children) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(children))
	}
	if !children[1].IsAggregate() {
		t.Error("an aggregate returned by an indicator is kept as a single child")
	}
}

func TestCheckOne(t *testing.T) {
	hidden := notApplicable(downIndicator("hidden", Attribute{"reason", "maintenance"}))
	inds := []Indicator{upIndicator("database"), hidden}

	t.Run("found", func(t *testing.T) {
		s, ok := CheckOne(context.Background(), inds, "database")
		if !ok || !s.Up() || s.Name() != "database" {
			t.Errorf("CheckOne(database) = %v, %v", s, ok)
		}
	})

	t.Run("ignores applicability", func(t *testing.T) {
		s, ok := CheckOne(context.Background(), inds, "hidden")
		if !ok {
			t.Fatal("CheckOne(hidden) absent")
		}
		if v, _ := s.Attr("reason"); v != "maintenance" {
			t.Errorf("reason = %v, want maintenance (real status)", v)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, ok := CheckOne(context.Background(), []Indicator{upIndicator("filesystem")}, "database"); ok {
			t.Error("CheckOne(database) should be absent")
		}
	})

	t.Run("guarded", func(t *testing.T) {
		boom := NewIndicatorFunc("boom", func(context.Context) (Status, error) { panic("x") })
		s, ok := CheckOne(context.Background(), []Indicator{boom}, "boom")
		if !ok || s.Up() {
			t.Errorf("CheckOne(boom) = %v, %v, want down status", s, ok)
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		first := upIndicator("dup", Attribute{"order", 1})
		second := upIndicator("dup", Attribute{"order", 2})
		s, _ := CheckOne(context.Background(), []Indicator{first, second}, "dup")
		if v, _ := s.Attr("order"); v != 1 {
			t.Errorf("order = %v, want 1", v)
		}
	})
}

func TestAggregator_UsesRegistry(t *testing.T) {
	reg, err := NewMemoryRegistry(upIndicator("b"), downIndicator("a"))
	if err != nil {
		t.Fatalf("NewMemoryRegistry() error = %v", err)
	}
	agg := NewAggregator(reg)

	s, ok := agg.CheckAll(context.Background())
	if !ok {
		t.Fatal("CheckAll() absent")
	}
	if s.Up() {
		t.Error("Up() = true, want false")
	}
	if names := childNames(s); names[0] != "a" {
		t.Errorf("children = %v, want a first", names)
	}

	if _, ok := agg.CheckOne(context.Background(), "missing"); ok {
		t.Error("CheckOne(missing) should be absent")
	}
	if s, ok := agg.CheckOne(context.Background(), "b"); !ok || !s.Up() {
		t.Errorf("CheckOne(b) = %v, %v", s, ok)
	}
}

func TestAggregator_Decorator(t *testing.T) {
	reg := IndicatorList{upIndicator("a"), upIndicator("b")}

	var decorated []string
	agg := NewAggregator(reg, WithDecorator(func(ind Indicator) Indicator {
		decorated = append(decorated, ind.Name())
		return ind
	}))

	agg.CheckAll(context.Background())
	agg.CheckOne(context.Background(), "a")

	if len(decorated) != 3 {
		t.Errorf("decorator called %d times, want 3", len(decorated))
	}
}

func TestAggregator_EmptyRegistry(t *testing.T) {
	agg := NewAggregator(IndicatorList{})
	if _, ok := agg.CheckAll(context.Background()); ok {
		t.Error("CheckAll() on empty registry should be absent")
	}
}
