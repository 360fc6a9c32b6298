package migration

import "fmt"

// DeferredValue is a placeholder for a value that is not known when an
// operation is defined but is produced when it executes, typically a deployed
// contract address. Later operations resolve it from the Registry by key.
type DeferredValue struct {
	Key     string
	resolve func() any
}

// Defer creates a deferred value with a lazy resolver.
func Defer(key string, resolve func() any) DeferredValue {
	return DeferredValue{Key: key, resolve: resolve}
}

// DeferValue creates a deferred value already bound to a concrete value.
func DeferValue(key string, value any) DeferredValue {
	return DeferredValue{Key: key, resolve: func() any { return value }}
}

func (d DeferredValue) Resolve() any {
	return d.resolve()
}

// ContractKey returns the registry key under which a deployed contract's
// address is published: "contract/<name>". Key uniqueness across a migration
// run is the caller's responsibility.
func ContractKey(name string) string {
	return "contract/" + name
}

// Registry is the key-value resolution store shared across one migration run.
// Each operation's result is merged into it so later operations can look up
// values produced by earlier ones. It replaces any hidden global state: the
// registry travels with the execution Env.
type Registry struct {
	values map[string]any
}

func NewRegistry() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Put stores a resolved value. An existing entry is overwritten; colliding
// keys are a caller error that the registry does not police.
func (r *Registry) Put(key string, value any) {
	r.values[key] = value
}

// Resolve returns the value stored under key.
func (r *Registry) Resolve(key string) (any, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("no value registered under %q", key)
	}
	return v, nil
}

// Merge resolves every DeferredValue found in a result and stores it under
// its key. Non-deferred result entries are left alone: they are addressed by
// result name, not by registry key.
func (r *Registry) Merge(res Result) {
	for _, v := range res {
		if dv, ok := v.(DeferredValue); ok {
			r.Put(dv.Key, dv.Resolve())
		}
	}
}
