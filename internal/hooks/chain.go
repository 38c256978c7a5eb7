package hooks

import "sort"

// Chain is the priority-ordered set of functions registered under one
// hookName. Lower Priority runs earlier; ties keep insertion order
// (sort.SliceStable), matching the teacher's stable-sort module ordering.
type Chain struct {
	functions []*Function
}

func newChain() *Chain {
	return &Chain{}
}

// Len reports how many functions are in the chain, including ones an
// INCLUSIVE/STRICT category filter would later exclude.
func (c *Chain) Len() int {
	return len(c.functions)
}

// Snapshot returns a copy of the chain's functions, ordered by priority,
// filtered to those whose mask matches requested under strict. Copying
// out from under the registry's read lock lets the executor run hook
// bodies without holding it.
func (c *Chain) Snapshot(requested CategoryMask, strict bool) []*Function {
	out := make([]*Function, 0, len(c.functions))
	for _, fn := range c.functions {
		if Matches(fn.Mask, requested, strict) {
			out = append(out, fn)
		}
	}
	return out
}

// upsert inserts fn, or replaces the existing function with the same
// Source, then re-sorts by priority.
func (c *Chain) upsert(fn *Function) {
	for i, existing := range c.functions {
		if existing.Source == fn.Source {
			c.functions[i] = fn
			c.resort()
			return
		}
	}
	c.functions = append(c.functions, fn)
	c.resort()
}

// removeSource drops every function contributed by source, if any, and
// reports whether anything was removed.
func (c *Chain) removeSource(source string) bool {
	kept := c.functions[:0]
	removed := false
	for _, fn := range c.functions {
		if fn.Source == source {
			removed = true
			continue
		}
		kept = append(kept, fn)
	}
	c.functions = kept
	return removed
}

func (c *Chain) resort() {
	sort.SliceStable(c.functions, func(i, j int) bool {
		return c.functions[i].Priority < c.functions[j].Priority
	})
}
