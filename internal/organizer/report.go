package organizer

import (
	"path/filepath"
	"strings"

	"profileorg/internal/catalog"
	"profileorg/internal/matcher"
	"profileorg/internal/textutil"
)

// Report summarizes catalog coverage of a set of profile files.
type Report struct {
	Total      int
	Detected   int
	Files      []matcher.Classification
	Undetected []UndetectedGroup
}

// Rate is the detected percentage, zero for an empty report.
func (r Report) Rate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Detected) / float64(r.Total) * 100
}

// UndetectedGroup collects undetected files sharing partial detections, a
// leading token and an extension.
type UndetectedGroup struct {
	Device    string
	Brand     string
	Prefix    string
	Extension string
	Files     []string
}

type groupKey struct {
	device, brand, prefix, ext string
}

// BuildReport classifies every path. A file counts as detected only when
// it matched with a known device and brand. Groups keep first-seen order.
func BuildReport(m *matcher.Matcher, paths []string) Report {
	report := Report{Total: len(paths)}
	index := make(map[groupKey]int)
	for _, path := range paths {
		name := filepath.Base(path)
		class := m.Classify(name)
		report.Files = append(report.Files, class)
		if class.Detected() {
			report.Detected++
			continue
		}

		key := groupKey{
			device: known(class.Device),
			brand:  known(class.Brand),
			prefix: textutil.LeadingToken(name),
			ext:    strings.ToLower(filepath.Ext(name)),
		}
		if key.brand == "" {
			if brand, ok := m.DetectBrand(name); ok {
				key.brand = brand
			}
		}
		pos, ok := index[key]
		if !ok {
			pos = len(report.Undetected)
			index[key] = pos
			report.Undetected = append(report.Undetected, UndetectedGroup{
				Device:    key.device,
				Brand:     key.brand,
				Prefix:    key.prefix,
				Extension: key.ext,
			})
		}
		report.Undetected[pos].Files = append(report.Undetected[pos].Files, path)
	}
	return report
}

func known(value string) string {
	if value == catalog.UnknownName {
		return ""
	}
	return value
}
