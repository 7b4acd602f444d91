package matcher

import (
	"path/filepath"
	"strings"

	"profileorg/internal/catalog"
)

// Result is one extracted triple. Device is canonical but not yet remapped.
type Result struct {
	Device   string
	Brand    string
	Material string
	Rule     string
}

// Candidate is one device found literally inside a filename, with the longest
// alias key that matched it.
type Candidate struct {
	Key    string
	Device string
}

// Matcher applies a catalog to filenames. It holds no mutable state and is safe
// for concurrent use.
type Matcher struct {
	catalog *catalog.Catalog
	rules   []catalog.Rule
}

func New(c *catalog.Catalog) *Matcher {
	if c == nil {
		c = catalog.Default()
	}
	return &Matcher{catalog: c, rules: c.Rules()}
}

// Catalog returns the catalog the matcher was built with.
func (m *Matcher) Catalog() *catalog.Catalog { return m.catalog }

// Match classifies one filename. Directory components and the extension are
// ignored. The first rule that resolves a device wins.
func (m *Matcher) Match(filename string) (Result, bool) {
	name := Stem(filename)
	if name == "" {
		return Result{}, false
	}
	for _, rule := range m.rules {
		if result, ok := m.apply(rule, name); ok {
			return result, true
		}
	}
	return Result{}, false
}

// Stem returns the base name without extension, with '+' read as a space.
func Stem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, "+", " ")
}

func (m *Matcher) apply(rule catalog.Rule, name string) (Result, bool) {
	remainder, ok := stripPrefix(rule, name)
	if !ok {
		return Result{}, false
	}
	parts := strings.Split(remainder, rule.Delimiter)

	var device, brand, material string
	for _, spec := range rule.Fields {
		value, ok := m.resolve(spec, parts, remainder, rule.Delimiter)
		if !ok {
			continue
		}
		switch spec.Target {
		case catalog.TargetDevice:
			device = value
		case catalog.TargetBrand:
			brand = value
		case catalog.TargetMaterial:
			material = value
		}
	}
	if device == "" {
		return Result{}, false
	}

	if brand == "" {
		brand = rule.FixedBrand
	}
	brand = m.catalog.NormalizeBrand(brand)

	switch {
	case rule.Material.Format:
		material = catalog.FormatMaterial(material, rule.Material.StripToken)
	case rule.Material.StripToken != "":
		material = strings.TrimSpace(catalog.RemoveFold(material, rule.Material.StripToken))
	}
	if material == "" {
		material = catalog.UnknownName
	}
	return Result{Device: device, Brand: brand, Material: material, Rule: rule.Name}, true
}

// stripPrefix returns the text left after the rule's prefix. Variants stand in
// for the prefix check; they are tried in declaration order and strip their
// declared length, not the literal's. A rule without a prefix ignores them.
func stripPrefix(rule catalog.Rule, name string) (string, bool) {
	if !rule.HasPrefix() {
		return name, true
	}
	if len(rule.Variants) > 0 {
		for _, variant := range rule.Variants {
			if hasPrefix(name, variant.Literal, rule.PrefixCaseInsensitive) {
				if variant.StripLength >= len(name) {
					return "", true
				}
				return name[variant.StripLength:], true
			}
		}
		return "", false
	}
	if !hasPrefix(name, rule.Prefix, rule.PrefixCaseInsensitive) {
		return "", false
	}
	return name[len(rule.Prefix):], true
}

func hasPrefix(s, prefix string, fold bool) bool {
	if len(s) < len(prefix) {
		return false
	}
	if fold {
		return strings.EqualFold(s[:len(prefix)], prefix)
	}
	return s[:len(prefix)] == prefix
}

func (m *Matcher) resolve(spec catalog.FieldSpec, parts []string, remainder, delimiter string) (string, bool) {
	table := m.catalog.Devices()
	if spec.Target == catalog.TargetBrand {
		table = m.catalog.Brands()
	}

	switch spec.Strategy {
	case catalog.FixedIndex:
		if spec.Index >= len(parts) {
			return "", false
		}
		part := strings.TrimSpace(parts[spec.Index])
		if part == "" {
			return "", false
		}
		if spec.Target == catalog.TargetDevice {
			return lookupLoose(table, part), true
		}
		return part, true

	case catalog.FixedRange:
		if spec.Index >= len(parts) {
			return "", false
		}
		return nonEmpty(strings.Join(parts[spec.Index:], delimiter))

	case catalog.AliasKeySearch:
		key, _, ok := searchParts(table, parts)
		if !ok {
			return "", false
		}
		return table.Canonical(key), true

	case catalog.AliasSubstringSearch:
		key, ok := longestKeyIn(table, remainder)
		if !ok {
			return "", false
		}
		return table.Canonical(key), true

	case catalog.TextBeforeDevice, catalog.TextAfterDevice:
		idx := firstDevicePart(m.catalog.Devices(), parts)
		if idx < 0 {
			return "", false
		}
		if spec.Strategy == catalog.TextBeforeDevice {
			return nonEmpty(strings.Join(parts[:idx], delimiter))
		}
		return nonEmpty(strings.Join(parts[idx+1:], delimiter))

	case catalog.RemainingText:
		text := remainder
		if key, ok := longestKeyIn(m.catalog.Devices(), remainder); ok {
			text = catalog.RemoveFold(remainder, key)
		}
		return nonEmpty(strings.Trim(text, " -_"))
	}
	return "", false
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// lookupLoose resolves part exactly, then case-insensitively, then by
// substring in either direction. Unknown parts are returned as given.
func lookupLoose(table *catalog.AliasTable, part string) string {
	if name, ok := table.Lookup(part); ok {
		return name
	}
	lower := strings.ToLower(part)
	for _, key := range table.Keys() {
		k := strings.ToLower(key)
		if strings.Contains(lower, k) || strings.Contains(k, lower) {
			return table.Canonical(key)
		}
	}
	return part
}

// searchParts finds the alias key matching some part. The longest key wins;
// equal lengths go to the earlier part and then to declaration order.
func searchParts(table *catalog.AliasTable, parts []string) (string, int, bool) {
	lowered := make([]string, len(parts))
	for i, part := range parts {
		lowered[i] = strings.ToLower(part)
	}
	best, bestPart := "", -1
	for _, key := range table.Keys() {
		k := strings.ToLower(key)
		for i, part := range lowered {
			if part == "" || !strings.Contains(part, k) {
				continue
			}
			if bestPart < 0 || len(key) > len(best) || (len(key) == len(best) && i < bestPart) {
				best, bestPart = key, i
			}
			break
		}
	}
	return best, bestPart, bestPart >= 0
}

// longestKeyIn returns the longest alias key contained case-insensitively in
// text; equal lengths keep declaration order.
func longestKeyIn(table *catalog.AliasTable, text string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	for _, key := range table.Keys() {
		if len(key) > len(best) && strings.Contains(lower, strings.ToLower(key)) {
			best = key
		}
	}
	return best, best != ""
}

// firstDevicePart is the index of the first part equal to or containing a
// device alias key, or -1.
func firstDevicePart(table *catalog.AliasTable, parts []string) int {
	keys := table.Keys()
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		for _, key := range keys {
			if strings.Contains(lower, strings.ToLower(key)) {
				return i
			}
		}
	}
	return -1
}

// Candidates lists the distinct devices whose alias keys occur literally and
// case-insensitively in the base filename. Each device keeps its longest key;
// devices are ordered by the declaration of their first matching key.
func (m *Matcher) Candidates(filename string) []Candidate {
	lower := strings.ToLower(filepath.Base(filename))
	table := m.catalog.Devices()
	index := make(map[string]int)
	var out []Candidate
	for _, key := range table.Keys() {
		if !strings.Contains(lower, strings.ToLower(key)) {
			continue
		}
		device := table.Canonical(key)
		pos, seen := index[device]
		if !seen {
			index[device] = len(out)
			out = append(out, Candidate{Key: key, Device: device})
			continue
		}
		if len(key) > len(out[pos].Key) {
			out[pos].Key = key
		}
	}
	return out
}

// DetectBrand looks for a brand in a filename no rule assigned one to: the
// longest brand alias key first, then the valid brand names in order.
func (m *Matcher) DetectBrand(filename string) (string, bool) {
	stem := Stem(filename)
	if key, ok := longestKeyIn(m.catalog.Brands(), stem); ok {
		return m.catalog.Brands().Canonical(key), true
	}
	lower := strings.ToLower(stem)
	for _, name := range m.catalog.ValidBrands() {
		if strings.Contains(lower, strings.ToLower(name)) {
			return m.catalog.NormalizeBrand(name), true
		}
	}
	return "", false
}
