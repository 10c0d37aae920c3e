// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package syncmap

import "sync"

// SyncMap is a generic, concurrency-safe map that allows storing key-value pairs
// while ensuring thread safety using a read-write mutex.
//
// Besides the usual Get/Set/Delete it exposes the two atomic primitives an
// activation table is built on: GetOrSet (insert-if-absent, else return the
// existing value) and Remove (remove-if-present, returning the removed value).
// Both hold the lock only for the map mutation itself.
//
// K represents the key type, which must be comparable.
// V represents the value type, which can be any type.
type SyncMap[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

// New creates and returns a new instance of SyncMap.
// It initializes the internal map for storing key-value pairs.
func New[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{
		data: make(map[K]V),
	}
}

// Set stores a key-value pair in the SyncMap.
// If the key already exists, its value is updated.
func (s *SyncMap[K, V]) Set(k K, v V) {
	s.mu.Lock()
	s.data[k] = v
	s.mu.Unlock()
}

// Get retrieves the value associated with the given key from the SyncMap.
// The second return value indicates whether the key was found.
func (s *SyncMap[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	val, ok := s.data[k]
	s.mu.RUnlock()
	return val, ok
}

// GetOrSet stores the given value only when the key is absent. It returns the
// value now associated with the key and whether that value was already present.
// The transition between "no entry" and "one entry" is atomic with respect to
// concurrent GetOrSet calls for the same key.
func (s *SyncMap[K, V]) GetOrSet(k K, v V) (actual V, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[k]; ok {
		return existing, true
	}
	s.data[k] = v
	return v, false
}

// Remove deletes the key-value pair associated with the given key and returns
// the removed value. When the key is absent, the zero value and false are
// returned and the map is left untouched.
func (s *SyncMap[K, V]) Remove(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[k]
	if ok {
		delete(s.data, k)
	}
	return val, ok
}

// Delete removes the key-value pair associated with the given key from the SyncMap.
// If the key does not exist, this operation has no effect.
func (s *SyncMap[K, V]) Delete(k K) {
	s.mu.Lock()
	delete(s.data, k)
	s.mu.Unlock()
}

// Len returns the number of key-value pairs currently stored in the SyncMap.
func (s *SyncMap[K, V]) Len() int {
	s.mu.RLock()
	l := len(s.data)
	s.mu.RUnlock()
	return l
}

// Range iterates over all key-value pairs in the SyncMap and executes the given
// function `f` for each pair. The iteration order is not guaranteed.
func (s *SyncMap[K, V]) Range(f func(K, V)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		f(k, v)
	}
}

// Keys returns the keys currently stored in the SyncMap.
func (s *SyncMap[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
