package domain

import "sort"

// FavoriteSet holds the course ids the user starred. Membership only; display
// order comes from the cards' original positions, not from this set.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from the persisted id list.
func NewFavoriteSet(ids []string) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership. An empty id is never a favorite.
func (s FavoriteSet) Has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// Toggle flips membership and reports the new state.
func (s FavoriteSet) Toggle(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

// IDs returns the members sorted, so the serialized form is deterministic.
func (s FavoriteSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone copies the set.
func (s FavoriteSet) Clone() FavoriteSet {
	out := make(FavoriteSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
