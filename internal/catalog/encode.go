package catalog

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type document struct {
	PrinterNames      map[string][]string `yaml:"printer_names" toml:"printer_names"`
	BrandNameMappings map[string][]string `yaml:"brand_name_mappings" toml:"brand_name_mappings"`
	PaperBrands       []string            `yaml:"paper_brands" toml:"paper_brands"`
	PrinterRemappings map[string]string   `yaml:"printer_remappings" toml:"printer_remappings"`
	FilenamePatterns  []documentRule      `yaml:"filename_patterns" toml:"filename_patterns"`
}

type documentRule struct {
	Name                  string            `yaml:"name" toml:"name"`
	Description           string            `yaml:"description,omitempty" toml:"description,omitempty"`
	Priority              int               `yaml:"priority" toml:"priority"`
	Prefix                string            `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	PrefixCaseInsensitive bool              `yaml:"prefix_case_insensitive,omitempty" toml:"prefix_case_insensitive,omitempty"`
	Delimiter             string            `yaml:"delimiter" toml:"delimiter"`
	BrandValue            string            `yaml:"brand_value,omitempty" toml:"brand_value,omitempty"`
	PaperTypeProcessing   *documentMaterial `yaml:"paper_type_processing,omitempty" toml:"paper_type_processing,omitempty"`
	Variants              []documentVariant `yaml:"variants,omitempty" toml:"variants,omitempty"`
	Structure             []documentField   `yaml:"structure" toml:"structure"`
}

type documentMaterial struct {
	Format      bool   `yaml:"format" toml:"format"`
	RemoveBrand string `yaml:"remove_brand,omitempty" toml:"remove_brand,omitempty"`
}

type documentVariant struct {
	Prefix       string `yaml:"prefix" toml:"prefix"`
	PrefixLength int    `yaml:"prefix_length" toml:"prefix_length"`
}

type documentField struct {
	Field     string `yaml:"field" toml:"field"`
	Position  string `yaml:"position,omitempty" toml:"position,omitempty"`
	MatchType string `yaml:"match_type,omitempty" toml:"match_type,omitempty"`
}

// Encode renders c as a catalog document that Parse reads back to an
// equivalent catalog. Rules are written in evaluation order.
func Encode(c *Catalog, format string) ([]byte, error) {
	doc := document{
		PrinterNames:      groupsToMap(c.devices.Groups()),
		BrandNameMappings: groupsToMap(c.brands.Groups()),
		PaperBrands:       c.ValidBrands(),
		PrinterRemappings: c.Remappings(),
	}
	for _, rule := range c.rules {
		doc.FilenamePatterns = append(doc.FilenamePatterns, encodeRule(rule))
	}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml catalog: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode toml catalog: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

func encodeRule(rule Rule) documentRule {
	out := documentRule{
		Name:                  rule.Name,
		Description:           rule.Description,
		Priority:              rule.Priority,
		Prefix:                rule.Prefix,
		PrefixCaseInsensitive: rule.PrefixCaseInsensitive,
		Delimiter:             rule.Delimiter,
		BrandValue:            rule.FixedBrand,
	}
	if rule.Material.Format || rule.Material.StripToken != "" {
		out.PaperTypeProcessing = &documentMaterial{
			Format:      rule.Material.Format,
			RemoveBrand: rule.Material.StripToken,
		}
	}
	for _, variant := range rule.Variants {
		out.Variants = append(out.Variants, documentVariant{Prefix: variant.Literal, PrefixLength: variant.StripLength})
	}
	for _, spec := range rule.Fields {
		out.Structure = append(out.Structure, documentField{
			Field:     spec.Label(),
			Position:  spec.Position(),
			MatchType: spec.MatchType(),
		})
	}
	return out
}

func groupsToMap(groups []AliasGroup) map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, group := range groups {
		out[group.Canonical] = append(out[group.Canonical], group.Aliases...)
	}
	return out
}
