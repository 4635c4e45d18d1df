package generate

import "testing"

func TestCacheRecomputesOnAnyKeyChange(t *testing.T) {
	var c Cache
	calls := 0
	compute := func(v View) func() Bundle {
		return func() Bundle { calls++; return Generate(v, Source{}) }
	}
	v := people
	v.Table = "users"
	k := NewKey(v, Source{}, "", "", "")
	first := c.Get(k, compute(v))
	again := c.Get(NewKey(v, Source{}, "", "", ""), compute(v))
	if calls != 1 || first != again {
		t.Fatalf("expected a hit, calls=%d", calls)
	}

	c.Get(NewKey(v, Source{}, "ali", "", ""), compute(v))
	if calls != 2 {
		t.Fatalf("search change must recompute")
	}

	v2 := v
	v2.Rows = [][]string{{"1", "Alice"}}
	b := c.Get(NewKey(v2, Source{}, "ali", "", ""), compute(v2))
	if calls != 3 || b.Insert.SQL != "INSERT INTO users (id, name) VALUES\n  (1, 'Alice');" {
		t.Fatalf("row change must recompute the whole bundle: %+v", b)
	}

	v3 := v2
	v3.Columns = []int{1, 0}
	c.Get(NewKey(v3, Source{}, "ali", "", ""), compute(v3))
	if calls != 4 {
		t.Fatalf("column order change must recompute")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 4 {
		t.Fatalf("stats %d/%d", hits, misses)
	}

	c.Invalidate()
	c.Get(NewKey(v3, Source{}, "ali", "", ""), compute(v3))
	if calls != 5 {
		t.Fatalf("invalidate must force recompute")
	}
}
