package compiler

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/registry"
)

// Cache memoizes Compile by (normalized source text, options), the
// single-owner plan cache spec §4.4 calls for so a long-lived engine
// (pkg/engine.Engine) doesn't re-resolve and re-optimize an identical filter
// on every Run call. Grounded on the same bounded-LRU shape the broader
// corpus reaches for when it needs a process-local memoization cache instead
// of hand-rolling a map-plus-eviction-list.
type Cache struct {
	reg *registry.Registry
	lru *lru.Cache[string, *Plan]
}

// NewCache builds a Cache of the given capacity (entries, not bytes) backing
// calls to reg.
func NewCache(reg *registry.Registry, size int) (*Cache, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[string, *Plan](size)
	if err != nil {
		return nil, err
	}
	return &Cache{reg: reg, lru: c}, nil
}

// cacheKey identifies a Compile call by its already-parsed tree's canonical
// text plus the options that affect the outcome; two distinct ast.Expr
// values parsed from identical source produce the same key and so share a
// Plan, while the same tree recompiled under a different Level or
// KnownVars set misses and recompiles.
func cacheKey(expr ast.Expr, opts Options) string {
	key := expr.String() + "\x00"
	switch opts.Level {
	case LevelNone:
		key += "none"
	case LevelAdvanced:
		key += "advanced"
	default:
		key += "basic"
	}
	if opts.DataframeOptimizations {
		key += "\x00df"
	}
	for _, v := range opts.KnownVars {
		key += "\x00$" + v
	}
	return key
}

// Compile returns the cached Plan for expr/opts if present, else compiles,
// caches, and returns a fresh one.
func (c *Cache) Compile(expr ast.Expr, opts Options) (*Plan, error) {
	key := cacheKey(expr, opts)
	if p, ok := c.lru.Get(key); ok {
		return p, nil
	}
	plan, err := Compile(expr, c.reg, opts)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, plan)
	return plan, nil
}

// Len reports the number of plans currently cached.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge evicts every cached plan, used by tests and by callers that swap the
// active Registry at runtime.
func (c *Cache) Purge() { c.lru.Purge() }
