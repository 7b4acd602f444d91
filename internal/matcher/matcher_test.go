package matcher

import (
	"testing"

	"profileorg/internal/catalog"
)

func TestMatchDefaultRules(t *testing.T) {
	m := New(catalog.Default())
	cases := []struct {
		file string
		want Result
	}{
		{"MOAB Lasal Luster P900.icc", Result{"Epson P900", "MOAB", "Lasal Luster", "moab_profiles"}},
		{"moab Entrada Rag Bright 300 P900 Ep.icm", Result{"Epson P900", "MOAB", "Entrada Rag Bright 300", "moab_profiles"}},
		{"EPSON SC-P900 Canson Aqua310.icc", Result{"Epson P900", "Canson", "Aqua 310", "epson_sc_files"}},
		{"HFA_SC-P900_PK_PhotoRag308.icc", Result{"Epson P900", "Hahnemuehle", "Photo Rag 308", "hfa_profiles"}},
		{"HFAMetallic_Can6450_MK_HahnemuehlePhotoRagMetallic.icc", Result{"Canon iPF6450", "Hahnemuehle", "Photo Rag Metallic", "hfa_profiles"}},
		{"cifa_pro100_aquarelle_rag.icc", Result{"Canon Pixma PRO-100", "Canson", "Aquarelle Rag", "cifa_profiles"}},
		{"RR UltraPro Satin P900.icc", Result{"Epson P900", "Red River", "Ultra Pro Satin", "red_river_profiles"}},
		{"Random Glossy P900.icc", Result{"Epson P900", catalog.UnknownName, "Random Glossy", "fallback_printer_detection"}},
		{"profiles/EPSON SC-X1 Acme Paper.icc", Result{"X1", "Acme", "Paper", "epson_sc_files"}},
	}
	for _, tc := range cases {
		got, ok := m.Match(tc.file)
		if !ok {
			t.Errorf("Match(%q) found nothing", tc.file)
			continue
		}
		if got != tc.want {
			t.Errorf("Match(%q) = %+v, want %+v", tc.file, got, tc.want)
		}
	}
}

func TestMatchMisses(t *testing.T) {
	m := New(catalog.Default())
	for _, file := range []string{"nothing here.icc", "EPSON SC- Canson Paper.icc", ""} {
		if got, ok := m.Match(file); ok {
			t.Errorf("Match(%q) = %+v, want no match", file, got)
		}
	}
}

func TestMatchPriorityIsDeterministic(t *testing.T) {
	devices, _ := catalog.NewAliasTable(catalog.DefaultDeviceAliases())
	low := catalog.Rule{
		Name: "low", Priority: 10, Delimiter: " ",
		Fields: []catalog.FieldSpec{{Target: catalog.TargetDevice, Strategy: catalog.AliasSubstringSearch}},
	}
	high := catalog.Rule{
		Name: "high", Priority: 90, Prefix: "MOAB ", Delimiter: " ",
		Fields: []catalog.FieldSpec{{Target: catalog.TargetDevice, Strategy: catalog.AliasKeySearch}},
	}
	for _, order := range [][]catalog.Rule{{low, high}, {high, low}} {
		c := catalog.New(devices, nil, nil, nil, order)
		got, ok := New(c).Match("MOAB Lasal Luster P900.icc")
		if !ok || got.Rule != "high" {
			t.Fatalf("order %s,%s: got %+v", order[0].Name, order[1].Name, got)
		}
	}
}

func TestKeySearchPrefersLongestThenEarliestPart(t *testing.T) {
	m := New(catalog.Default())
	got, _ := m.Match("MOAB Paper P900 SC-P700.icc")
	if got.Device != "Epson P700" || got.Material != "Paper" {
		t.Fatalf("longest key should win: %+v", got)
	}
	got, _ = m.Match("MOAB Paper P900 P700.icc")
	if got.Device != "Epson P900" {
		t.Fatalf("equal length keys should go to the earlier part: %+v", got)
	}
}

func TestVariantUsesDeclaredStripLength(t *testing.T) {
	devices, _ := catalog.NewAliasTable(catalog.DefaultDeviceAliases())
	rule := catalog.Rule{
		Name: "variants", Priority: 50, Delimiter: "_", Prefix: "ab",
		Variants: []catalog.PrefixVariant{
			{Literal: "ab_", StripLength: 5},
			{Literal: "abcd_", StripLength: 5},
		},
		Fields: []catalog.FieldSpec{
			{Target: catalog.TargetDevice, Strategy: catalog.FixedIndex, Index: 0},
			{Target: catalog.TargetMaterial, Strategy: catalog.FixedRange, Index: 1},
		},
	}
	m := New(catalog.New(devices, nil, nil, nil, []catalog.Rule{rule}))
	got, ok := m.Match("ab_xyP900_Lustre_Fine.icc")
	if !ok || got.Device != "Epson P900" || got.Material != "Lustre_Fine" {
		t.Fatalf("got %+v", got)
	}
	if _, ok := m.Match("zz_P900_Lustre.icc"); ok {
		t.Fatal("no variant matches, rule must not apply")
	}
}

func TestVariantsIgnoredWithoutPrefix(t *testing.T) {
	devices, _ := catalog.NewAliasTable(catalog.DefaultDeviceAliases())
	rule := catalog.Rule{
		Name: "loose", Priority: 50, Delimiter: "_",
		Variants: []catalog.PrefixVariant{{Literal: "HFA_", StripLength: 4}},
		Fields: []catalog.FieldSpec{
			{Target: catalog.TargetDevice, Strategy: catalog.FixedIndex, Index: 0},
			{Target: catalog.TargetMaterial, Strategy: catalog.FixedRange, Index: 1},
		},
	}
	if rule.HasPrefix() {
		t.Fatal("variants alone must not make a prefix")
	}
	m := New(catalog.New(devices, nil, nil, nil, []catalog.Rule{rule}))
	got, ok := m.Match("P900_Baryta.icc")
	if !ok || got.Device != "Epson P900" || got.Material != "Baryta" {
		t.Fatalf("prefix-less rule should match the whole name: %+v, %v", got, ok)
	}
	got, ok = m.Match("HFA_P900_Baryta.icc")
	if !ok || got.Device != "HFA" || got.Material != "P900_Baryta" {
		t.Fatalf("variant must not be stripped without a prefix: %+v", got)
	}
}

func TestCandidates(t *testing.T) {
	m := New(catalog.Default())
	got := m.Candidates("Luster P7570 P9570.icc")
	want := []Candidate{{Key: "P7570", Device: "Epson P7570"}, {Key: "P9570", Device: "Epson P9570"}}
	if len(got) != len(want) {
		t.Fatalf("Candidates = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	single := m.Candidates("pixmapro100_glossy.icc")
	if len(single) != 1 || single[0].Key != "pixmapro100" {
		t.Fatalf("longest key per device expected, got %+v", single)
	}
	if none := m.Candidates("plain.icc"); len(none) != 0 {
		t.Fatalf("unexpected candidates %+v", none)
	}
}

func TestClassifyRemapsAndDetectsBrand(t *testing.T) {
	m := New(catalog.Default())
	c := m.Classify("MOAB Lasal Luster P700.icc")
	if c.Result.Device != "Epson P700" || c.Device != "Epson P900" || !c.Detected() {
		t.Fatalf("remap not applied: %+v", c)
	}
	c = m.Classify("Glossy Canson P900.icc")
	if c.Brand != "Canson" || !c.Detected() {
		t.Fatalf("brand fallback not applied: %+v", c)
	}
	c = m.Classify("Glossy P900.icc")
	if c.Detected() || c.Brand != catalog.UnknownName {
		t.Fatalf("unknown brand must not count as detected: %+v", c)
	}
	if c := m.Classify("nothing.icc"); c.Matched || c.Detected() {
		t.Fatalf("unmatched file detected: %+v", c)
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"dir/Paper+Name.icc": "Paper Name",
		"plain":              "plain",
		"a.b.icm":            "a.b",
		"":                   "",
	}
	for in, want := range cases {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}
