package runeterm

import "testing"

func TestColorCacheGetPut(t *testing.T) {
	c := newColorCache()
	key := colorCacheKey{fg: Palette(1), bg: Palette(2)}

	if _, ok := c.get(key); ok {
		t.Fatal("empty cache should miss")
	}
	c.put(key, "hit")
	if v, ok := c.get(key); !ok || v != "hit" {
		t.Fatalf("get after put = %q, %v", v, ok)
	}
}

func TestColorCacheEviction(t *testing.T) {
	c := newColorCache()
	for i := 0; i < colorCacheCap+10; i++ {
		c.put(colorCacheKey{fg: Palette(uint8(i % 256)), bg: Color(i)}, "v")
	}
	if len(c.entries) != colorCacheCap {
		t.Errorf("cache size = %d, want %d", len(c.entries), colorCacheCap)
	}

	// The earliest-inserted keys should have been evicted.
	if _, ok := c.get(colorCacheKey{fg: Palette(0), bg: Color(0)}); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestColorDeltaMemoizes(t *testing.T) {
	c := newColorCache()
	a := c.colorDelta(Palette(1), DefaultColor, false)
	b := c.colorDelta(Palette(1), DefaultColor, false)
	if a != b {
		t.Errorf("colorDelta not stable across calls: %q vs %q", a, b)
	}
	if len(c.entries) != 1 {
		t.Errorf("expected exactly one cache entry, got %d", len(c.entries))
	}
}

func TestColorDeltaNeedsBg49(t *testing.T) {
	c := newColorCache()
	out := c.colorDelta(Palette(3), DefaultColor, true)
	if out[:len("\x1b[49")] != "\x1b[49" {
		t.Errorf("colorDelta with needsBg49 = %q, want to start with ESC[49", out)
	}
}
