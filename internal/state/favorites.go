package state

import "slices"

// Favorites is a bounded set of location names kept in alphabetical order.
type Favorites struct {
	limit int
	names []string
}

func NewFavorites(limit int) *Favorites {
	return &Favorites{limit: limit}
}

func (f *Favorites) Full() bool {
	return len(f.names) >= f.limit
}

func (f *Favorites) Contains(name string) bool {
	_, found := slices.BinarySearch(f.names, name)
	return found
}

// Add inserts name. It returns false if name is already present or the set
// is full.
func (f *Favorites) Add(name string) bool {
	i, found := slices.BinarySearch(f.names, name)
	if found || f.Full() {
		return false
	}
	f.names = slices.Insert(f.names, i, name)
	return true
}

func (f *Favorites) Remove(name string) bool {
	i, found := slices.BinarySearch(f.names, name)
	if !found {
		return false
	}
	f.names = slices.Delete(f.names, i, i+1)
	return true
}

// Replace loads names, dropping blanks, duplicates and anything past
// capacity in alphabetical order. It reports how many names were dropped
// for lack of room.
func (f *Favorites) Replace(names []string) (dropped int) {
	f.names = f.names[:0]
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	for _, name := range slices.Compact(sorted) {
		if name == "" {
			continue
		}
		if !f.Add(name) {
			dropped++
		}
	}
	return dropped
}

func (f *Favorites) Len() int {
	return len(f.names)
}

// Items returns the names in alphabetical order.
func (f *Favorites) Items() []string {
	return slices.Clone(f.names)
}
