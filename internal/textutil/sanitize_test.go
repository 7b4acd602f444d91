package textutil

import "testing"

func TestSanitizeSegment(t *testing.T) {
	cases := map[string]string{
		"Epson P900":     "Epson P900",
		"  MOAB  ":       "MOAB",
		"a/b\\c:d":       "a-b-c-d",
		"...":            "fallback",
		"":               "fallback",
		"Baryta 2.0.":    "Baryta 2.0",
		"nul\x00in name": "nul-in name",
	}
	for in, want := range cases {
		if got := SanitizeSegment(in, "fallback"); got != want {
			t.Errorf("SanitizeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLeadingToken(t *testing.T) {
	cases := map[string]string{
		"CIFA Baryta P900.icc": "CIFA",
		"HFA_Photo_Rag.icm":    "HFA",
		"EpsSC-P900.icc":       "EpsSC",
		"single.icc":           "single",
		"two_parts here.icc":   "two_parts",
	}
	for in, want := range cases {
		if got := LeadingToken(in); got != want {
			t.Errorf("LeadingToken(%q) = %q, want %q", in, got, want)
		}
	}
}
