package catalog

import (
	"sort"
	"strings"
)

// UnknownName marks a brand or material the rules could not determine.
const UnknownName = "Unknown"

// Catalog is the immutable rule set for one run.
type Catalog struct {
	devices     *AliasTable
	brands      *AliasTable
	validBrands []string
	remap       RemappingTable
	rules       []Rule
}

// New assembles a catalog. Rules are stable-sorted by descending priority so
// equal priorities keep declaration order.
func New(devices, brands *AliasTable, validBrands []string, remap RemappingTable, rules []Rule) *Catalog {
	if devices == nil {
		devices, _ = NewAliasTable(nil)
	}
	if brands == nil {
		brands, _ = NewAliasTable(nil)
	}
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	remapCopy := make(RemappingTable, len(remap))
	for from, to := range remap {
		remapCopy[from] = to
	}
	return &Catalog{
		devices:     devices,
		brands:      brands,
		validBrands: append([]string(nil), validBrands...),
		remap:       remapCopy,
		rules:       sorted,
	}
}

func (c *Catalog) Devices() *AliasTable { return c.devices }

func (c *Catalog) Brands() *AliasTable { return c.brands }

// ValidBrands returns the flat list of known brand names.
func (c *Catalog) ValidBrands() []string { return append([]string(nil), c.validBrands...) }

// Remap applies the device remapping table once.
func (c *Catalog) Remap(device string) string { return c.remap.Apply(device) }

// Remappings returns a copy of the remapping table.
func (c *Catalog) Remappings() RemappingTable {
	out := make(RemappingTable, len(c.remap))
	for from, to := range c.remap {
		out[from] = to
	}
	return out
}

// Rules returns the rules in evaluation order.
func (c *Catalog) Rules() []Rule { return append([]Rule(nil), c.rules...) }

// NormalizeBrand maps a raw brand token through the brand alias table. Unknown
// tokens are returned trimmed and unchanged; empty input becomes UnknownName.
func (c *Catalog) NormalizeBrand(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownName
	}
	if name, ok := c.brands.Lookup(raw); ok {
		return name
	}
	return raw
}
