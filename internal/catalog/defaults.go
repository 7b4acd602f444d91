package catalog

// Default returns the built-in catalog used when no document is configured or
// a document leaves a section out.
func Default() *Catalog {
	devices, _ := NewAliasTable(DefaultDeviceAliases())
	brands, _ := NewAliasTable(DefaultBrandAliases())
	return New(devices, brands, DefaultValidBrands(), DefaultRemappings(), DefaultRules())
}

func DefaultDeviceAliases() []AliasGroup {
	return []AliasGroup{
		{Canonical: "Canon Pixma PRO-100", Aliases: []string{
			"PRO-100", "Pro-100", "pro-100", "pixmapro100", "pro100",
			"CanPro-100", "CanPro100", "canpro-100", "canpro100", "CANPRO-100", "CANPRO100",
		}},
		{Canonical: "Canon iPF6450", Aliases: []string{"Can6450", "iPF6450", "ipf6450", "iPf6450", "ipf6400", "IPF6400", "iPFX400"}},
		{Canonical: "Canon iPF8400", Aliases: []string{"Can8400"}},
		{Canonical: "Epson P700", Aliases: []string{"P700", "SC-P700", "EpsSC-P700"}},
		{Canonical: "Epson P900", Aliases: []string{"P900", "SC-P900", "EpsSC-P900", "p900"}},
		{Canonical: "Epson P7570", Aliases: []string{"EpsSC-P7570", "P7570", "SC-P7570", "p7570", "Epson SureColor P7570"}},
		{Canonical: "Epson P9500", Aliases: []string{"EpsSC-P9500"}},
		{Canonical: "Epson P7500", Aliases: []string{"P7500", "SC-P7500", "p7500"}},
		{Canonical: "Epson P9570", Aliases: []string{"P9570", "SC-P9570"}},
	}
}

func DefaultBrandAliases() []AliasGroup {
	return []AliasGroup{
		{Canonical: "Canson", Aliases: []string{"cifa", "CIFA", "canson", "Canson"}},
		{Canonical: "Hahnemuehle", Aliases: []string{"HFA", "hfa", "Hahnemuehle", "hahnemuehle"}},
		{Canonical: "MOAB", Aliases: []string{"MOAB", "Moab", "moab"}},
	}
}

func DefaultValidBrands() []string {
	return []string{"Moab", "Canson", "Hahnemuehle"}
}

func DefaultRemappings() RemappingTable {
	return RemappingTable{
		"Canon iPF8400":         "Canon iPF6450",
		"Epson P700":            "Epson P900",
		"Epson P7500":           "Epson P7570",
		"Epson P9500":           "Epson P7570",
		"Epson SureColor P7570": "Epson P7570",
	}
}

func DefaultRules() []Rule {
	formatted := MaterialFormat{Format: true}
	return []Rule{
		{
			Name:                  "moab_profiles",
			Description:           "MOAB <material words> <printer> [extra]",
			Priority:              100,
			Prefix:                "MOAB ",
			PrefixCaseInsensitive: true,
			Delimiter:             " ",
			Fields: []FieldSpec{
				{Target: TargetMaterial, Strategy: TextBeforeDevice},
				{Target: TargetDevice, Strategy: AliasKeySearch},
				{Name: "code", Target: TargetOther, Strategy: TextAfterDevice},
			},
			FixedBrand: "MOAB",
			Material:   formatted,
		},
		{
			Name:        "epson_sc_files",
			Description: "EPSON SC-<printer> <brand> <material...>",
			Priority:    90,
			Prefix:      "EPSON SC-",
			Delimiter:   " ",
			Fields: []FieldSpec{
				{Target: TargetDevice, Strategy: FixedIndex, Index: 0},
				{Target: TargetBrand, Strategy: FixedIndex, Index: 1},
				{Target: TargetMaterial, Strategy: FixedRange, Index: 2},
			},
			Material: formatted,
		},
		{
			Name:        "hfa_profiles",
			Description: "HFA_<printer>_<MK|PK>_<material...>",
			Priority:    85,
			Prefix:      "HFA",
			Variants: []PrefixVariant{
				{Literal: "HFAMetallic_", StripLength: 12},
				{Literal: "HFAPhoto_", StripLength: 9},
				{Literal: "HFA_", StripLength: 4},
			},
			Delimiter: "_",
			Fields: []FieldSpec{
				{Target: TargetDevice, Strategy: FixedIndex, Index: 0},
				{Name: "mk_pk", Target: TargetOther, Strategy: FixedIndex, Index: 1},
				{Target: TargetMaterial, Strategy: FixedRange, Index: 2},
			},
			FixedBrand: "Hahnemuehle",
			Material:   MaterialFormat{Format: true, StripToken: "Hahnemuehle"},
		},
		{
			Name:                  "cifa_profiles",
			Description:           "cifa_<printer>_<material...>",
			Priority:              80,
			Prefix:                "cifa_",
			PrefixCaseInsensitive: true,
			Delimiter:             "_",
			Fields: []FieldSpec{
				{Target: TargetDevice, Strategy: FixedIndex, Index: 0},
				{Target: TargetMaterial, Strategy: FixedRange, Index: 1},
			},
			FixedBrand: "Canson",
			Material:   formatted,
		},
		{
			Name:        "red_river_profiles",
			Description: "RR <material words> <printer>",
			Priority:    75,
			Prefix:      "RR ",
			Delimiter:   " ",
			Fields: []FieldSpec{
				{Target: TargetMaterial, Strategy: TextBeforeDevice},
				{Target: TargetDevice, Strategy: AliasKeySearch},
			},
			FixedBrand: "Red River",
			Material:   MaterialFormat{Format: true, StripToken: "Ep"},
		},
		{
			Name:        "fallback_printer_detection",
			Description: "any name containing a known printer alias",
			Priority:    10,
			Delimiter:   " ",
			Fields: []FieldSpec{
				{Target: TargetDevice, Strategy: AliasSubstringSearch},
				{Target: TargetMaterial, Strategy: RemainingText},
			},
			FixedBrand: UnknownName,
			Material:   formatted,
		},
	}
}
