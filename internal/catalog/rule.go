package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Target names the slot of the extracted triple a field fills.
type Target int

const (
	TargetOther Target = iota
	TargetDevice
	TargetBrand
	TargetMaterial
)

func (t Target) String() string {
	switch t {
	case TargetDevice:
		return "printer"
	case TargetBrand:
		return "brand"
	case TargetMaterial:
		return "paper_type"
	default:
		return "other"
	}
}

// ParseTarget maps a catalog field name to a Target. Unknown names are
// TargetOther.
func ParseTarget(name string) Target {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "printer", "device":
		return TargetDevice
	case "brand":
		return TargetBrand
	case "paper_type", "material":
		return TargetMaterial
	default:
		return TargetOther
	}
}

// StrategyKind is the closed set of field extraction strategies.
type StrategyKind int

const (
	FixedIndex StrategyKind = iota + 1
	FixedRange
	AliasKeySearch
	AliasSubstringSearch
	TextBeforeDevice
	TextAfterDevice
	RemainingText
)

func (k StrategyKind) String() string {
	switch k {
	case FixedIndex:
		return "fixed_index"
	case FixedRange:
		return "fixed_range"
	case AliasKeySearch:
		return "key_search"
	case AliasSubstringSearch:
		return "substring"
	case TextBeforeDevice:
		return "before_printer"
	case TextAfterDevice:
		return "after_printer"
	case RemainingText:
		return "remaining"
	default:
		return "unknown"
	}
}

// FieldSpec extracts one field. Index is read by FixedIndex and FixedRange only.
// Name keeps the document's label for TargetOther fields such as "mk_pk".
type FieldSpec struct {
	Name     string
	Target   Target
	Strategy StrategyKind
	Index    int
}

// Label is the field name as catalog documents spell it.
func (f FieldSpec) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Target.String()
}

// Position renders the field the way catalog documents spell it.
func (f FieldSpec) Position() string {
	switch f.Strategy {
	case FixedIndex:
		return strconv.Itoa(f.Index)
	case FixedRange:
		return strconv.Itoa(f.Index) + "+"
	case TextBeforeDevice, TextAfterDevice, RemainingText:
		return f.Strategy.String()
	default:
		return ""
	}
}

// MatchType renders the search strategies' match_type value.
func (f FieldSpec) MatchType() string {
	switch f.Strategy {
	case AliasKeySearch, AliasSubstringSearch:
		return f.Strategy.String()
	default:
		return ""
	}
}

func (f FieldSpec) String() string {
	if pos := f.Position(); pos != "" {
		return f.Label() + "@" + pos
	}
	return f.Label() + "~" + f.MatchType()
}

// PrefixVariant is one accepted prefix literal with the number of leading
// characters to strip when it matches.
type PrefixVariant struct {
	Literal     string
	StripLength int
}

// MaterialFormat controls post-processing of the extracted material.
type MaterialFormat struct {
	Format     bool
	StripToken string
}

// Rule is one declarative filename pattern.
type Rule struct {
	Name                  string
	Description           string
	Priority              int
	Prefix                string
	Variants              []PrefixVariant
	PrefixCaseInsensitive bool
	Delimiter             string
	Fields                []FieldSpec
	FixedBrand            string
	Material              MaterialFormat
}

// HasPrefix reports whether the rule requires a prefix at all. Variants only
// take effect on a rule that declares a prefix.
func (r Rule) HasPrefix() bool {
	return r.Prefix != ""
}

// Validate reports the first structural problem with the rule.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("rule name is required")
	}
	if r.Delimiter == "" {
		return fmt.Errorf("rule %s: delimiter must not be empty", r.Name)
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("rule %s: structure must declare at least one field", r.Name)
	}
	device := false
	for i, field := range r.Fields {
		switch field.Strategy {
		case FixedIndex, FixedRange:
			if field.Index < 0 {
				return fmt.Errorf("rule %s: field %d: negative position %d", r.Name, i, field.Index)
			}
		case AliasKeySearch, AliasSubstringSearch, TextBeforeDevice, TextAfterDevice, RemainingText:
		default:
			return fmt.Errorf("rule %s: field %d: unknown strategy", r.Name, i)
		}
		if field.Target == TargetDevice {
			device = true
		}
	}
	if !device {
		return fmt.Errorf("rule %s: structure must extract a printer field", r.Name)
	}
	for _, variant := range r.Variants {
		if variant.Literal == "" {
			return fmt.Errorf("rule %s: variant prefix must not be empty", r.Name)
		}
		if variant.StripLength < 0 {
			return fmt.Errorf("rule %s: variant %q: negative prefix_length", r.Name, variant.Literal)
		}
	}
	return nil
}
