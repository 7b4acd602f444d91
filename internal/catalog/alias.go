package catalog

import (
	"fmt"
	"strings"
)

// AliasGroup declares one canonical name and the raw tokens that mean it.
type AliasGroup struct {
	Canonical string
	Aliases   []string
}

// AliasTable maps alias tokens to canonical names. Lookups are exact first and
// then case-insensitive. Keys keep declaration order.
type AliasTable struct {
	keys      []string
	canonical map[string]string
	folded    map[string]string
}

// NewAliasTable builds a table from groups. An alias declared for two different
// canonical names keeps the last one; each such reassignment is returned as a
// warning.
func NewAliasTable(groups []AliasGroup) (*AliasTable, []string) {
	t := &AliasTable{
		canonical: make(map[string]string),
		folded:    make(map[string]string),
	}
	var warnings []string
	for _, group := range groups {
		name := strings.TrimSpace(group.Canonical)
		if name == "" {
			warnings = append(warnings, "alias group without a canonical name skipped")
			continue
		}
		for _, alias := range group.Aliases {
			alias = strings.TrimSpace(alias)
			if alias == "" {
				continue
			}
			if prev, ok := t.canonical[alias]; ok {
				if prev != name {
					warnings = append(warnings, fmt.Sprintf("alias %q reassigned from %q to %q", alias, prev, name))
				}
			} else {
				t.keys = append(t.keys, alias)
			}
			t.canonical[alias] = name
			t.folded[strings.ToLower(alias)] = name
		}
	}
	return t, warnings
}

// Lookup resolves alias to its canonical name.
func (t *AliasTable) Lookup(alias string) (string, bool) {
	if t == nil {
		return "", false
	}
	if name, ok := t.canonical[alias]; ok {
		return name, true
	}
	name, ok := t.folded[strings.ToLower(alias)]
	return name, ok
}

// Canonical returns the canonical name of a key exactly as declared.
func (t *AliasTable) Canonical(key string) string {
	if t == nil {
		return ""
	}
	return t.canonical[key]
}

// Keys returns the alias keys in declaration order.
func (t *AliasTable) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Len reports the number of distinct alias keys.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Groups regroups the keys by canonical name, ordered by each canonical name's
// first key.
func (t *AliasTable) Groups() []AliasGroup {
	if t == nil {
		return nil
	}
	index := make(map[string]int)
	var groups []AliasGroup
	for _, key := range t.keys {
		name := t.canonical[key]
		pos, ok := index[name]
		if !ok {
			pos = len(groups)
			index[name] = pos
			groups = append(groups, AliasGroup{Canonical: name})
		}
		groups[pos].Aliases = append(groups[pos].Aliases, key)
	}
	return groups
}
