package catalog

import "sort"

// RemappingTable consolidates canonical device names. It is applied exactly
// once; targets are never looked up again.
type RemappingTable map[string]string

// Apply returns the replacement for name, or name itself.
func (r RemappingTable) Apply(name string) string {
	if to, ok := r[name]; ok && to != "" {
		return to
	}
	return name
}

// Chains lists sources whose target is itself remapped (a chain or a cycle).
func (r RemappingTable) Chains() []string {
	var out []string
	for from, to := range r {
		if _, ok := r[to]; ok {
			out = append(out, from)
		}
	}
	sort.Strings(out)
	return out
}
