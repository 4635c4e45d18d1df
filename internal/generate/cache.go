package generate

import (
	"crypto/sha256"
	"strconv"
	"strings"
	"sync"

	"tablesense/internal/util/logx"
)

// Key identifies everything a generated bundle depends on. It is compared
// by value.
type Key struct {
	Search  string
	Scope   string
	Expr    string
	Columns string // visible columns in display order
	Table   string
	SQL     string
	Rows    [sha256.Size]byte
}

// NewKey derives the cache key of a view under the given filter text.
func NewKey(v View, src Source, search, scope, expr string) Key {
	cols := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		cols[i] = strconv.Itoa(c)
	}
	return Key{
		Search:  search,
		Scope:   scope,
		Expr:    expr,
		Columns: strings.Join(cols, ","),
		Table:   v.Table,
		SQL:     src.SQL,
		Rows:    digest(v.Headers, v.Rows),
	}
}

func digest(headers []string, rows [][]string) [sha256.Size]byte {
	h := sha256.New()
	write := func(cells []string) {
		for _, c := range cells {
			h.Write([]byte(c))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	write(headers)
	for _, r := range rows {
		write(r)
	}
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Bundle holds the three statements generated together.
type Bundle struct {
	Select Result
	Insert Result
	Delete Result
}

// Generate computes a full bundle.
func Generate(v View, src Source) Bundle {
	return Bundle{Select: Select(v, src), Insert: Insert(v, src), Delete: Delete(v, src)}
}

// Cache memoizes the last bundle. A key mismatch replaces the whole bundle.
type Cache struct {
	mu     sync.Mutex
	key    Key
	bundle Bundle
	valid  bool
	hits   int
	misses int
}

func (c *Cache) Get(k Key, compute func() Bundle) Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.key == k {
		c.hits++
		return c.bundle
	}
	c.misses++
	c.key, c.bundle, c.valid = k, compute(), true
	logx.Debugf("generate: cache miss (%d hits, %d misses)", c.hits, c.misses)
	return c.bundle
}

// Invalidate drops the cached bundle.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.bundle = Bundle{}
	c.mu.Unlock()
}

// Stats reports cache hits and misses.
func (c *Cache) Stats() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
