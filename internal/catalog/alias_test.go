package catalog

import (
	"strings"
	"testing"
)

func TestAliasTableLookupExactThenFolded(t *testing.T) {
	table, warnings := NewAliasTable(DefaultDeviceAliases())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	cases := []struct {
		alias string
		want  string
		ok    bool
	}{
		{"pro100", "Canon Pixma PRO-100", true},
		{"PRO-100", "Canon Pixma PRO-100", true},
		{"Pro-100", "Canon Pixma PRO-100", true},
		{"PRO100", "Canon Pixma PRO-100", true},
		{"sc-p900", "Epson P900", true},
		{"Can8400", "Canon iPF8400", true},
		{"P800", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := table.Lookup(tc.alias)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tc.alias, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAliasTableReassignmentKeepsLastAndWarns(t *testing.T) {
	table, warnings := NewAliasTable([]AliasGroup{
		{Canonical: "Epson P700", Aliases: []string{"P700", "SC-P700"}},
		{Canonical: "Epson P900", Aliases: []string{"P900", "P700"}},
	})
	if len(warnings) != 1 || !strings.Contains(warnings[0], `"P700"`) {
		t.Fatalf("expected one reassignment warning, got %v", warnings)
	}
	if got, _ := table.Lookup("P700"); got != "Epson P900" {
		t.Fatalf("P700 resolved to %q, want last declaration", got)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}
	keys := table.Keys()
	if strings.Join(keys, ",") != "P700,SC-P700,P900" {
		t.Fatalf("keys out of declaration order: %v", keys)
	}
}

func TestAliasTableGroupsFollowFirstKey(t *testing.T) {
	table, _ := NewAliasTable([]AliasGroup{
		{Canonical: "B", Aliases: []string{"b1"}},
		{Canonical: "A", Aliases: []string{"a1", " ", "a2"}},
		{Canonical: "", Aliases: []string{"orphan"}},
	})
	groups := table.Groups()
	if len(groups) != 2 || groups[0].Canonical != "B" || groups[1].Canonical != "A" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if len(groups[1].Aliases) != 2 {
		t.Fatalf("blank alias should be dropped: %+v", groups[1])
	}
	if _, ok := table.Lookup("orphan"); ok {
		t.Fatal("alias of a nameless group should be skipped")
	}
}

func TestNilAliasTableIsEmpty(t *testing.T) {
	var table *AliasTable
	if _, ok := table.Lookup("x"); ok || table.Len() != 0 || table.Keys() != nil {
		t.Fatal("nil table should behave as empty")
	}
}

func TestRemappingTableAppliesOnce(t *testing.T) {
	remap := RemappingTable{
		"Epson P700": "Epson P900",
		"Epson P900": "Epson P9000",
		"Solo":       "",
	}
	if got := remap.Apply("Epson P700"); got != "Epson P900" {
		t.Fatalf("Apply chained: got %q", got)
	}
	if got := remap.Apply("Solo"); got != "Solo" {
		t.Fatalf("empty target should keep name, got %q", got)
	}
	if got := remap.Apply("Canon iPF6450"); got != "Canon iPF6450" {
		t.Fatalf("unmapped name changed: %q", got)
	}
	chains := remap.Chains()
	if len(chains) != 1 || chains[0] != "Epson P700" {
		t.Fatalf("Chains() = %v", chains)
	}
}
