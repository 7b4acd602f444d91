package matcher

import "profileorg/internal/catalog"

// Classification is a matched, remapped triple ready for reporting. Brand
// falls back to DetectBrand when the rule left it Unknown.
type Classification struct {
	Filename string
	Matched  bool
	Result   Result
	Device   string
	Brand    string
	Material string
}

// Detected reports whether the file got a usable device and brand.
func (c Classification) Detected() bool {
	return c.Matched &&
		c.Device != "" && c.Device != catalog.UnknownName &&
		c.Brand != "" && c.Brand != catalog.UnknownName
}

// Classify matches filename and applies the remapping table.
func (m *Matcher) Classify(filename string) Classification {
	out := Classification{Filename: filename}
	result, ok := m.Match(filename)
	if !ok {
		return out
	}
	out.Matched = true
	out.Result = result
	out.Device = m.catalog.Remap(result.Device)
	out.Brand = result.Brand
	out.Material = result.Material
	if out.Brand == catalog.UnknownName {
		if brand, found := m.DetectBrand(filename); found {
			out.Brand = brand
		}
	}
	return out
}
