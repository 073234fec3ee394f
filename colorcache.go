package runeterm

import "container/list"

// colorCacheCap is the maximum number of entries the color-sequence cache
// holds before evicting the oldest (spec: bounded at 1024 by design).
const colorCacheCap = 1024

type colorCacheKey struct {
	fg, bg    Color
	needsBg49 bool
}

// colorCache is a size-bounded LRU mapping (fg, bg, needsBg49) to the fully
// assembled color-only SGR delta. Purely a performance optimization:
// correctness of the renderer never depends on a hit here.
type colorCache struct {
	entries map[colorCacheKey]*list.Element
	order   *list.List // front = most recently used
}

type colorCacheEntry struct {
	key   colorCacheKey
	value string
}

func newColorCache() *colorCache {
	return &colorCache{
		entries: make(map[colorCacheKey]*list.Element),
		order:   list.New(),
	}
}

func (c *colorCache) get(key colorCacheKey) (string, bool) {
	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*colorCacheEntry).value, true
}

func (c *colorCache) put(key colorCacheKey, value string) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*colorCacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&colorCacheEntry{key: key, value: value})
	c.entries[key] = el
	if c.order.Len() > colorCacheCap {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*colorCacheEntry).key)
		}
	}
}

// colorDelta returns the color-only SGR delta for transitioning to (fg, bg),
// prepending a "49" background reset when needsBg49 is set. Results are
// memoized in the cache.
func (c *colorCache) colorDelta(fg, bg Color, needsBg49 bool) string {
	key := colorCacheKey{fg: fg, bg: bg, needsBg49: needsBg49}
	if v, ok := c.get(key); ok {
		return v
	}
	var out string
	if needsBg49 {
		out = "\x1b[" + seqBgReset
		if s := ColorSequence(fg, false); s != "" {
			out += ";" + sgrBody(s)
		} else if fg.IsDefault() {
			out += ";39"
		}
		out += "m"
		if bgSeq := ColorSequence(bg, true); bgSeq != "" {
			out += bgSeq
		}
	} else {
		fgSeq := ColorSequence(fg, false)
		if fg.IsDefault() {
			fgSeq = "\x1b[39m"
		}
		out = fgSeq + ColorSequence(bg, true)
	}
	c.put(key, out)
	return out
}

// sgrBody strips the leading "ESC[" and trailing "m" from a single SGR
// sequence so its codes can be folded into another sequence.
func sgrBody(seq string) string {
	if len(seq) < 3 {
		return ""
	}
	return seq[2 : len(seq)-1]
}
