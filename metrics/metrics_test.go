package metrics

import "testing"

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Inc(5)
	c.Dec(2)
	if count := c.Snapshot().Count(); count != 3 {
		t.Errorf("count: %d, want 3", count)
	}
	c.Clear()
	if count := c.Snapshot().Count(); count != 0 {
		t.Errorf("count after clear: %d, want 0", count)
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge()
	g.Update(47)
	if v := g.Snapshot().Value(); v != 47 {
		t.Errorf("value: %d, want 47", v)
	}
	g.UpdateIfGt(12)
	if v := g.Snapshot().Value(); v != 47 {
		t.Errorf("value after smaller UpdateIfGt: %d, want 47", v)
	}
	g.UpdateIfGt(99)
	if v := g.Snapshot().Value(); v != 99 {
		t.Errorf("value after larger UpdateIfGt: %d, want 99", v)
	}
}

func TestLabel(t *testing.T) {
	l := NewLabel()
	l.Mark(map[string]interface{}{"chain": "lumen"})
	l.Mark(map[string]interface{}{"fork": "london"})
	snap := l.Snapshot().Value()
	if snap["chain"] != "lumen" || snap["fork"] != "london" {
		t.Errorf("unexpected label value: %v", snap)
	}
	// The snapshot must not track later marks.
	l.Mark(map[string]interface{}{"chain": "other"})
	if snap["chain"] != "lumen" {
		t.Error("snapshot mutated by a later mark")
	}
}

func TestRegistryGetOrRegister(t *testing.T) {
	r := NewRegistry()
	first := GetOrRegisterCounter("foo", r)
	second := GetOrRegisterCounter("foo", r)
	if first != second {
		t.Error("GetOrRegister returned a different counter for the same name")
	}
	if got := r.Get("foo"); got != first {
		t.Error("Get returned a different metric")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("dup", NewCounter()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register("dup", NewCounter()); err == nil {
		t.Fatal("duplicate register did not fail")
	}
	r.Unregister("dup")
	if err := r.Register("dup", NewCounter()); err != nil {
		t.Fatalf("register after unregister failed: %v", err)
	}
}

func TestRegistryEach(t *testing.T) {
	r := NewRegistry()
	NewRegisteredCounter("a", r)
	NewRegisteredGauge("b", r)
	names := make(map[string]bool)
	r.Each(func(name string, m any) {
		names[name] = true
	})
	if !names["a"] || !names["b"] {
		t.Errorf("Each missed metrics: %v", names)
	}
}
