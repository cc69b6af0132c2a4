// Package registry holds the append-only, insertion-ordered registries that
// accumulate state across one generation run.
package registry

import (
	"fmt"
	"sync"
)

// Validator is a function that validates a key-value pair before registration
type Validator[K comparable, V any] func(key K, value V, existing map[K]V) error

// Ordered is a thread-safe, append-only registry that remembers insertion
// order. Once sealed it rejects further registrations.
type Ordered[K comparable, V any] struct {
	mu            sync.RWMutex
	items         map[K]V
	order         []K
	validator     Validator[K, V]
	sealed        bool
	registryName  string
	keyDescriptor string // e.g. "method name"
}

// NewOrdered creates a new ordered registry
func NewOrdered[K comparable, V any](registryName, keyDesc string) *Ordered[K, V] {
	return &Ordered[K, V]{
		items:         make(map[K]V),
		registryName:  registryName,
		keyDescriptor: keyDesc,
	}
}

// SetValidator sets the validation function for this registry
func (r *Ordered[K, V]) SetValidator(validator Validator[K, V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = validator
}

// Register adds an item. Existing keys are never overwritten.
func (r *Ordered[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(key, value)
}

func (r *Ordered[K, V]) registerLocked(key K, value V) error {
	if r.sealed {
		return fmt.Errorf("%s registry is sealed; cannot register %s '%v'", r.registryName, r.keyDescriptor, key)
	}
	if r.validator != nil {
		if err := r.validator(key, value, r.items); err != nil {
			return fmt.Errorf("%s registry: %w", r.registryName, err)
		}
	}
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s registry: %s '%v' is already registered", r.registryName, r.keyDescriptor, key)
	}

	r.items[key] = value
	r.order = append(r.order, key)
	return nil
}

// GetOrRegister returns the value stored under key, registering the result of
// create when the key is new. The boolean reports whether create ran.
func (r *Ordered[K, V]) GetOrRegister(key K, create func() V) (V, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if value, exists := r.items[key]; exists {
		return value, false, nil
	}
	value := create()
	if err := r.registerLocked(key, value); err != nil {
		var zero V
		return zero, false, err
	}
	return value, true, nil
}

// Get retrieves an item from the registry
func (r *Ordered[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// Has checks if a key exists in the registry
func (r *Ordered[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[key]
	return exists
}

// Keys returns all keys in insertion order
func (r *Ordered[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Values returns all values in insertion order
func (r *Ordered[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]V, 0, len(r.order))
	for _, key := range r.order {
		values = append(values, r.items[key])
	}
	return values
}

// Len returns the number of registered items
func (r *Ordered[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Seal freezes the registry; it is called before the registry is read for output
func (r *Ordered[K, V]) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called
func (r *Ordered[K, V]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// NotEmptyKeyValidator validates that a string key is not empty
func NotEmptyKeyValidator[V any](keyDesc string) Validator[string, V] {
	return func(key string, value V, existing map[string]V) error {
		if key == "" {
			return fmt.Errorf("%s cannot be empty", keyDesc)
		}
		return nil
	}
}

// NotNilValueValidator validates that a pointer value is not nil
func NotNilValueValidator[K comparable, V any](valueDesc string) Validator[K, *V] {
	return func(key K, value *V, existing map[K]*V) error {
		if value == nil {
			return fmt.Errorf("%s cannot be nil", valueDesc)
		}
		return nil
	}
}

// ChainValidators combines multiple validators into one
func ChainValidators[K comparable, V any](validators ...Validator[K, V]) Validator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		for _, validator := range validators {
			if validator != nil {
				if err := validator(key, value, existing); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
