package state

import "sort"

// AvailabilityStore tracks which selection keys currently resolve to content.
type AvailabilityStore interface {
	Available(key string) bool
	Missing() []string
	Set(map[string]bool)
	Known() bool
}

type availabilityStore struct {
	keys  map[string]bool
	known bool
}

// NewAvailabilityStore returns a store that treats every key as available
// until the first Set.
func NewAvailabilityStore() AvailabilityStore {
	return &availabilityStore{}
}

func (s *availabilityStore) Available(key string) bool {
	if !s.known {
		return true
	}
	return s.keys[key]
}

func (s *availabilityStore) Missing() []string {
	var out []string
	for key, ok := range s.keys {
		if !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func (s *availabilityStore) Set(keys map[string]bool) {
	dup := make(map[string]bool, len(keys))
	for k, v := range keys {
		dup[k] = v
	}
	s.keys = dup
	s.known = true
}

func (s *availabilityStore) Known() bool {
	return s.known
}
