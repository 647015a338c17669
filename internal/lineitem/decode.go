package lineitem

import (
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON decodes a category-keyed object. Keys that resolve to the
// same category, such as unknown keys falling into Other, are concatenated.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw map[string][]Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = merge(raw)
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (s *Store) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string][]Item
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = merge(raw)
	return nil
}

// merge buckets raw by ParseCategory. Exact category keys come first in
// display order, then the remaining keys sorted, so results are stable.
func merge(raw map[string][]Item) Store {
	if raw == nil {
		return nil
	}
	out := make(Store, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, c := range Categories {
		if items, ok := raw[string(c)]; ok {
			out[c] = append(out[c], items...)
			seen[string(c)] = true
		}
	}

	rest := make([]string, 0, len(raw))
	for k := range raw {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		c := ParseCategory(k)
		out[c] = append(out[c], raw[k]...)
	}
	return out
}
