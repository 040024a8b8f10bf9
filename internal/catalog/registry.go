package catalog

import (
	"fmt"
	"sync"
)

// Registry holds app schemas registered at runtime. It lives for the
// process lifetime; schemas are upserted, never deleted.
type Registry struct {
	schemas sync.Map // appId -> AppSchema
	count   int64
	mu      sync.Mutex // guards count
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register upserts a schema keyed by its app ID. Re-registering the same
// app ID replaces the previous schema wholesale, it does not merge.
func (r *Registry) Register(schema AppSchema) error {
	if schema.AppID == "" {
		return fmt.Errorf("schema appId is required")
	}

	r.mu.Lock()
	if _, exists := r.schemas.Load(schema.AppID); !exists {
		r.count++
	}
	r.schemas.Store(schema.AppID, schema)
	r.mu.Unlock()

	return nil
}

// Lookup returns the schema registered for the given app ID.
func (r *Registry) Lookup(appID string) (AppSchema, bool) {
	if appID == "" {
		return AppSchema{}, false
	}
	value, ok := r.schemas.Load(appID)
	if !ok {
		return AppSchema{}, false
	}
	return value.(AppSchema), true
}

// Count returns the number of registered schemas.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.count)
}

// AppIDs returns the registered app IDs in no particular order.
func (r *Registry) AppIDs() []string {
	var ids []string
	r.schemas.Range(func(key, _ any) bool {
		ids = append(ids, key.(string))
		return true
	})
	return ids
}
