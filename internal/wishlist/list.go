package wishlist

import "github.com/google/uuid"

// Items is an id-addressed flat collection, newest first. Operations return a
// fresh slice and never write through to the receiver.
type Items []Item

// Find looks up id. Missing ids are reported, never fatal.
func (l Items) Find(id uuid.UUID) (Item, bool) {
	if i := l.index(id); i >= 0 {
		return l[i], true
	}
	return Item{}, false
}

// Add prepends item.
func (l Items) Add(item Item) Items {
	out := make(Items, 0, len(l)+1)
	out = append(out, item)
	return append(out, l...)
}

// Remove drops id if present and reports whether anything was removed.
func (l Items) Remove(id uuid.UUID) (Items, bool) {
	i := l.index(id)
	if i < 0 {
		return l, false
	}
	out := make(Items, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), true
}

// Clone copies the collection.
func (l Items) Clone() Items {
	out := make(Items, len(l))
	copy(out, l)
	return out
}

func (l Items) index(id uuid.UUID) int {
	for i, item := range l {
		if item.ID == id {
			return i
		}
	}
	return -1
}
