package domain

import "sort"

// LeafSet holds the finest-grained partitions materialized on storage.
type LeafSet struct {
	paths map[string]struct{}
}

func NewLeafSet(paths ...string) LeafSet {
	set := LeafSet{paths: make(map[string]struct{}, len(paths))}
	for _, path := range paths {
		set.Add(path)
	}
	return set
}

func (set *LeafSet) Add(path string) {
	if set.paths == nil {
		set.paths = make(map[string]struct{})
	}
	set.paths[path] = struct{}{}
}

func (set LeafSet) Contains(path string) bool {
	_, ok := set.paths[path]
	return ok
}

func (set LeafSet) Len() int {
	return len(set.paths)
}

// Paths returns the leaves in lexicographic order.
func (set LeafSet) Paths() []string {
	paths := make([]string, 0, len(set.paths))
	for path := range set.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// CreationTimeIndex maps time keys to the entry observed for that key. Putting a
// key twice replaces the earlier entry.
type CreationTimeIndex struct {
	entries map[TimeKey]Entry
	keys    []TimeKey
	sorted  bool
}

func NewCreationTimeIndex() *CreationTimeIndex {
	return &CreationTimeIndex{entries: make(map[TimeKey]Entry)}
}

func (index *CreationTimeIndex) Put(key TimeKey, entry Entry) {
	if _, exists := index.entries[key]; !exists {
		index.keys = append(index.keys, key)
		index.sorted = false
	}
	index.entries[key] = entry
}

func (index *CreationTimeIndex) Get(key TimeKey) (Entry, bool) {
	entry, ok := index.entries[key]
	return entry, ok
}

func (index *CreationTimeIndex) Len() int {
	return len(index.keys)
}

// Keys returns the keys in ascending order.
func (index *CreationTimeIndex) Keys() []TimeKey {
	if !index.sorted {
		sort.Slice(index.keys, func(i, j int) bool {
			return index.keys[i].Before(index.keys[j])
		})
		index.sorted = true
	}
	return append([]TimeKey(nil), index.keys...)
}

// PartitionSet is a set of partition paths kept sorted by an Ordering. A path the
// ordering considers equal to one already present is not added.
type PartitionSet struct {
	order Ordering
	paths []string
}

func NewPartitionSet(order Ordering) *PartitionSet {
	if order == nil {
		order = ParentThenName
	}
	return &PartitionSet{order: order}
}

// Add inserts path and reports whether it was new.
func (set *PartitionSet) Add(path string) bool {
	i := sort.Search(len(set.paths), func(i int) bool {
		return set.order(set.paths[i], path) >= 0
	})
	if i < len(set.paths) && set.order(set.paths[i], path) == 0 {
		return false
	}
	set.paths = append(set.paths, "")
	copy(set.paths[i+1:], set.paths[i:])
	set.paths[i] = path
	return true
}

func (set *PartitionSet) Contains(path string) bool {
	i := sort.Search(len(set.paths), func(i int) bool {
		return set.order(set.paths[i], path) >= 0
	})
	return i < len(set.paths) && set.order(set.paths[i], path) == 0
}

func (set *PartitionSet) Len() int {
	return len(set.paths)
}

// Last returns the greatest path under the ordering.
func (set *PartitionSet) Last() (string, bool) {
	if len(set.paths) == 0 {
		return "", false
	}
	return set.paths[len(set.paths)-1], true
}

func (set *PartitionSet) Paths() []string {
	return append([]string(nil), set.paths...)
}
