package lineitem

// Store holds line items grouped by category. Operations return a new Store
// and leave the receiver untouched, so callers can keep the previous value.
type Store map[Category][]Item

// Add appends a zeroed item to category and returns the updated store and the new item id.
func (s Store) Add(category Category) (Store, string) {
	out := s.clone()
	id := newID()
	out[category] = append(out[category], Item{ID: id, Category: category})
	return out, id
}

// Update replaces field on the item identified by id within category.
// Unknown categories or ids leave the store unchanged.
func (s Store) Update(category Category, id string, field Field, raw string) Store {
	idx := s.indexOf(category, id)
	if idx < 0 {
		return s
	}
	out := s.clone()
	out[category][idx] = out[category][idx].set(field, raw)
	return out
}

// Remove deletes the item identified by id within category.
func (s Store) Remove(category Category, id string) Store {
	idx := s.indexOf(category, id)
	if idx < 0 {
		return s
	}
	out := s.clone()
	items := out[category]
	out[category] = append(items[:idx:idx], items[idx+1:]...)
	if len(out[category]) == 0 {
		delete(out, category)
	}
	return out
}

// Get returns the item with id in category.
func (s Store) Get(category Category, id string) (Item, bool) {
	idx := s.indexOf(category, id)
	if idx < 0 {
		return Item{}, false
	}
	return s[category][idx], true
}

// Categories returns the non-empty categories in display order.
func (s Store) Categories() []Category {
	out := make([]Category, 0, len(s))
	for _, c := range Categories {
		if len(s[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Items flattens the store in category display order, then insertion order.
func (s Store) Items() []Item {
	out := make([]Item, 0, s.Len())
	for _, c := range s.Categories() {
		out = append(out, s[c]...)
	}
	return out
}

// Len counts items across all categories.
func (s Store) Len() int {
	n := 0
	for _, items := range s {
		n += len(items)
	}
	return n
}

// Subtotal sums federal and non-federal amounts for one category. It is used
// for display and never feeds the roll-up cascade.
func (s Store) Subtotal(category Category) float64 {
	total := 0.0
	for _, item := range s[category] {
		total += item.Total()
	}
	return total
}

func (s Store) indexOf(category Category, id string) int {
	for i, item := range s[category] {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s Store) clone() Store {
	out := make(Store, len(s)+1)
	for c, items := range s {
		out[c] = append([]Item(nil), items...)
	}
	return out
}

// Normalize aligns each item's Category with the bucket holding it and assigns
// ids to items decoded without one.
func (s Store) Normalize() Store {
	out := s.clone()
	for c, items := range out {
		for i := range items {
			items[i].Category = c
			if items[i].ID == "" {
				items[i].ID = newID()
			}
		}
	}
	return out
}
