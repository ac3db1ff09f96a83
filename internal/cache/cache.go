// Package cache implements the normalized in-memory cache backing the
// GraphQL client. Response objects are split into entities keyed by an
// identity function and merged field by field under declarative policies.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Options configures a Cache.
type Options struct {
	// Identify derives entity keys. Defaults to DefaultIdentify.
	Identify IdentifyFunc
	// Policies holds per-field merge strategies. Defaults to DefaultPolicies.
	Policies Policies
}

// Cache is a normalized entity store. It is safe for concurrent use; each
// Write is applied under a single lock, so concurrent writes touching the
// same entity resolve last-write-wins.
type Cache struct {
	mu       sync.RWMutex
	entities map[string]map[string]any
	identify IdentifyFunc
	policies Policies
}

// New creates an empty Cache.
func New(opts Options) *Cache {
	if opts.Identify == nil {
		opts.Identify = DefaultIdentify
	}
	if opts.Policies == nil {
		opts.Policies = DefaultPolicies()
	}
	return &Cache{
		entities: make(map[string]map[string]any),
		identify: opts.Identify,
		policies: opts.Policies,
	}
}

// Restore replaces the cache contents with a copy of s.
func (c *Cache) Restore(s Snapshot) {
	restored := s.Clone()
	c.mu.Lock()
	c.entities = restored
	c.mu.Unlock()
}

// Extract returns a copy of the cache contents.
func (c *Cache) Extract() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot(c.entities).Clone()
}

// Len returns the number of stored entities, root entities included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entities)
}

// Keys returns the stored entity keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entities))
	for k := range c.entities {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Entity returns a copy of the entity stored under key.
func (c *Cache) Entity(key string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entities[key]
	if !ok {
		return nil, false
	}
	return cloneObject(e), true
}

// Write normalizes data, a JSON response object, and stores the normalized
// tree as field storeKey of the root entity (RootQuery or RootMutation).
func (c *Cache) Write(root, storeKey string, data []byte) error {
	var tree any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	normalized := c.normalize(tree)
	c.mergeEntity(root, rootTypenames[root], map[string]any{storeKey: normalized})
	return nil
}

func (c *Cache) normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		fields := make(map[string]any, len(v))
		for k, item := range v {
			fields[k] = c.normalize(item)
		}
		key, ok := c.identify(v)
		if !ok {
			return fields
		}
		typename, _ := v[typenameField].(string)
		c.mergeEntity(key, typename, fields)
		return Ref(key)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = c.normalize(item)
		}
		return out
	default:
		return v
	}
}

// mergeEntity merges incoming into the entity stored under key. Fields absent
// from incoming are kept. c.mu must be held.
func (c *Cache) mergeEntity(key, typename string, incoming map[string]any) {
	existing, ok := c.entities[key]
	if !ok {
		existing = make(map[string]any, len(incoming))
		c.entities[key] = existing
	}
	for field, value := range incoming {
		prev, had := existing[field]
		if !had {
			existing[field] = value
			continue
		}
		existing[field] = c.policies.Merge(typename, field, prev, value)
	}
}

// Read returns the JSON encoding of the result stored as field storeKey of
// root, with references resolved. It reports a miss when the result or any
// entity it references is absent. The returned object may carry more fields
// than the operation that wrote it selected.
func (c *Cache) Read(root, storeKey string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entity, ok := c.entities[root]
	if !ok {
		return nil, false
	}
	v, ok := entity[storeKey]
	if !ok {
		return nil, false
	}
	out, ok := c.denormalize(v, make(map[string]bool))
	if !ok {
		return nil, false
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, false
	}
	return data, true
}

// denormalize resolves references in v. An entity already being resolved
// higher up the tree is emitted with its reference-free fields only.
func (c *Cache) denormalize(v any, visiting map[string]bool) (any, bool) {
	if key, ok := refKey(v); ok {
		entity, ok := c.entities[key]
		if !ok {
			return nil, false
		}
		if visiting[key] {
			out := make(map[string]any, len(entity))
			for f, fv := range entity {
				if !containsRef(fv) {
					out[f] = cloneValue(fv)
				}
			}
			return out, true
		}
		visiting[key] = true
		defer delete(visiting, key)
		return c.denormalizeObject(entity, visiting)
	}

	switch v := v.(type) {
	case map[string]any:
		return c.denormalizeObject(v, visiting)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			d, ok := c.denormalize(item, visiting)
			if !ok {
				return nil, false
			}
			out[i] = d
		}
		return out, true
	default:
		return v, true
	}
}

func (c *Cache) denormalizeObject(m map[string]any, visiting map[string]bool) (any, bool) {
	out := make(map[string]any, len(m))
	for f, fv := range m {
		d, ok := c.denormalize(fv, visiting)
		if !ok {
			return nil, false
		}
		out[f] = d
	}
	return out, true
}
