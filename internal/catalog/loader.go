package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"

	"profileorg/internal/failure"
	"profileorg/internal/logging"
)

// Document formats understood by Load, Parse and Encode.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// SourceDefaults is the LoadReport source when no document was read.
const SourceDefaults = "defaults"

const (
	sectionDevices     = "printer_names"
	sectionBrands      = "brand_name_mappings"
	sectionValidBrands = "paper_brands"
	sectionRemap       = "printer_remappings"
	sectionRules       = "filename_patterns"

	defaultPriority  = 50
	defaultDelimiter = " "
)

// LoadReport describes where a catalog came from and what the loader had to
// skip or replace with built-in values.
type LoadReport struct {
	Source            string
	Rules             int
	DefaultedSections []string
	Warnings          []string
}

func (r *LoadReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *LoadReport) defaulted(section string) {
	r.DefaultedSections = append(r.DefaultedSections, section)
}

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Load reads a catalog document. An empty path yields the built-in catalog.
// Missing or malformed sections fall back to built-in values and unparseable
// rules are skipped; both are reported as warnings and logged. Only an
// unreadable or undecodable document is an error.
func Load(path string, logger *slog.Logger) (*Catalog, LoadReport, error) {
	logger = logging.NewComponentLogger(logger, "catalog")
	path = strings.TrimSpace(path)
	if path == "" {
		c := Default()
		logger.Debug("using built-in catalog", logging.Int("rules", len(c.rules)))
		return c, LoadReport{Source: SourceDefaults, Rules: len(c.rules)}, nil
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, LoadReport{}, failure.Wrap(failure.ErrConfiguration, "catalog", "detect format", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadReport{}, failure.Wrap(failure.ErrConfiguration, "catalog", "read", path, err)
	}
	c, report, err := Parse(data, format)
	if err != nil {
		return nil, LoadReport{}, failure.Wrap(failure.ErrConfiguration, "catalog", "decode", path, err)
	}
	report.Source = path
	for _, warning := range report.Warnings {
		logging.WarnWithContext(logger, "catalog entry ignored", "catalog_entry_invalid",
			logging.String("catalog", path),
			logging.String("detail", warning),
			logging.String(logging.FieldErrorHint, "fix the entry in the catalog document"),
			logging.String(logging.FieldImpact, "built-in values or remaining rules used instead"),
		)
	}
	logger.Info("catalog loaded",
		logging.String("catalog", path),
		logging.Int("rules", report.Rules),
		logging.Int("device_aliases", c.devices.Len()),
		logging.Strings("defaulted_sections", report.DefaultedSections),
	)
	return c, report, nil
}

// Parse builds a catalog from document bytes in the given format.
func Parse(data []byte, format string) (*Catalog, LoadReport, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, LoadReport{}, err
	}
	var report LoadReport

	deviceGroups := parseAliasSection(doc, sectionDevices, DefaultDeviceAliases(), &report)
	devices, warnings := NewAliasTable(deviceGroups)
	for _, w := range warnings {
		report.warnf("%s: %s", sectionDevices, w)
	}
	brandGroups := parseAliasSection(doc, sectionBrands, DefaultBrandAliases(), &report)
	brands, warnings := NewAliasTable(brandGroups)
	for _, w := range warnings {
		report.warnf("%s: %s", sectionBrands, w)
	}
	validBrands := parseValidBrands(doc, &report)
	remap := parseRemappings(doc, &report)
	for _, from := range remap.Chains() {
		report.warnf("%s: %q maps to %q which is remapped again; the second step is not applied", sectionRemap, from, remap[from])
	}
	rules := parseRules(doc, &report)

	c := New(devices, brands, validBrands, remap, rules)
	report.Rules = len(c.rules)
	return c, report, nil
}

// field and object keep document key order for both formats.
type field struct {
	key   string
	value any
}

type object []field

func (o object) get(key string) (any, bool) {
	for _, f := range o {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

func decodeDocument(data []byte, format string) (object, error) {
	var root any
	switch format {
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if node.Kind == 0 {
			return object{}, nil
		}
		v, err := fromYAML(&node)
		if err != nil {
			return nil, err
		}
		root = v
	case FormatTOML:
		raw := map[string]any{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		order, err := tomlKeyOrder(data)
		if err != nil {
			return nil, err
		}
		root = fromTOML(raw, "", order)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if root == nil {
		return object{}, nil
	}
	doc, ok := root.(object)
	if !ok {
		return nil, errors.New("catalog document must be a mapping at the top level")
	}
	return doc, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.MappingNode:
		obj := make(object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			key := n.Content[i].Value
			replaced := false
			for j := range obj {
				if obj[j].key == key {
					obj[j].value = value
					replaced = true
				}
			}
			if !replaced {
				obj = append(obj, field{key: key, value: value})
			}
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			value, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case yaml.ScalarNode:
		var value any
		if err := n.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: dangling alias", n.Line)
		}
		return fromYAML(n.Alias)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}

// fromTOML converts decoded TOML into the loader's ordered form. Keys are
// emitted in document order so alias declaration order survives.
func fromTOML(v any, path string, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		rank := func(key string) int {
			if n, ok := order[joinKeyPath(path, key)]; ok {
				return n
			}
			return math.MaxInt
		}
		sort.SliceStable(keys, func(i, j int) bool {
			ri, rj := rank(keys[i]), rank(keys[j])
			if ri != rj {
				return ri < rj
			}
			return keys[i] < keys[j]
		})
		obj := make(object, 0, len(keys))
		for _, key := range keys {
			obj = append(obj, field{key: key, value: fromTOML(t[key], joinKeyPath(path, key), order)})
		}
		return obj
	case []map[string]any:
		list := make([]any, 0, len(t))
		for _, item := range t {
			list = append(list, fromTOML(item, path, order))
		}
		return list
	case []any:
		list := make([]any, 0, len(t))
		for _, item := range t {
			list = append(list, fromTOML(item, path, order))
		}
		return list
	default:
		return t
	}
}

const keyPathSep = "\x00"

func joinKeyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + keyPathSep + key
}

// tomlKeyOrder records where each key path first appears in the document.
// Array elements share the path of their array.
func tomlKeyOrder(data []byte) (map[string]int, error) {
	order := map[string]int{}
	see := func(path []string) {
		key := ""
		for _, part := range path {
			key = joinKeyPath(key, part)
			if _, ok := order[key]; !ok {
				order[key] = len(order)
			}
		}
	}

	var p unstable.Parser
	p.Reset(data)
	var table []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = tomlKeyPath(nil, expr.Key())
			see(table)
		case unstable.KeyValue:
			tomlValueOrder(see, tomlKeyPath(table, expr.Key()), expr.Value())
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return order, nil
}

func tomlKeyPath(prefix []string, it unstable.Iterator) []string {
	path := append([]string(nil), prefix...)
	for it.Next() {
		path = append(path, string(it.Node().Data))
	}
	return path
}

func tomlValueOrder(see func([]string), path []string, value *unstable.Node) {
	see(path)
	switch value.Kind {
	case unstable.InlineTable:
		it := value.Children()
		for it.Next() {
			if kv := it.Node(); kv.Kind == unstable.KeyValue {
				tomlValueOrder(see, tomlKeyPath(path, kv.Key()), kv.Value())
			}
		}
	case unstable.Array:
		it := value.Children()
		for it.Next() {
			tomlValueOrder(see, path, it.Node())
		}
	}
}

func parseAliasSection(doc object, section string, fallback []AliasGroup, report *LoadReport) []AliasGroup {
	raw, ok := doc.get(section)
	if !ok || raw == nil {
		report.defaulted(section)
		return fallback
	}
	entries, ok := raw.(object)
	if !ok {
		report.warnf("%s: expected a mapping of canonical name to aliases; using built-in table", section)
		report.defaulted(section)
		return fallback
	}
	groups := make([]AliasGroup, 0, len(entries))
	for _, entry := range entries {
		group := AliasGroup{Canonical: entry.key}
		switch value := entry.value.(type) {
		case []any:
			for i, item := range value {
				alias, ok := scalarString(item)
				if !ok {
					report.warnf("%s: %s[%d]: alias must be a string", section, entry.key, i)
					continue
				}
				group.Aliases = append(group.Aliases, alias)
			}
		default:
			alias, ok := scalarString(value)
			if !ok {
				report.warnf("%s: %s: expected a list of aliases", section, entry.key)
				continue
			}
			group.Aliases = append(group.Aliases, alias)
		}
		groups = append(groups, group)
	}
	return groups
}

func parseValidBrands(doc object, report *LoadReport) []string {
	raw, ok := doc.get(sectionValidBrands)
	if !ok || raw == nil {
		report.defaulted(sectionValidBrands)
		return DefaultValidBrands()
	}
	list, ok := raw.([]any)
	if !ok {
		report.warnf("%s: expected a list of brand names; using built-in list", sectionValidBrands)
		report.defaulted(sectionValidBrands)
		return DefaultValidBrands()
	}
	brands := make([]string, 0, len(list))
	for i, item := range list {
		name, ok := scalarString(item)
		if !ok || strings.TrimSpace(name) == "" {
			report.warnf("%s[%d]: brand must be a non-empty string", sectionValidBrands, i)
			continue
		}
		brands = append(brands, strings.TrimSpace(name))
	}
	return brands
}

func parseRemappings(doc object, report *LoadReport) RemappingTable {
	raw, ok := doc.get(sectionRemap)
	if !ok || raw == nil {
		report.defaulted(sectionRemap)
		return DefaultRemappings()
	}
	entries, ok := raw.(object)
	if !ok {
		report.warnf("%s: expected a mapping of device name to replacement; using built-in table", sectionRemap)
		report.defaulted(sectionRemap)
		return DefaultRemappings()
	}
	remap := make(RemappingTable, len(entries))
	for _, entry := range entries {
		to, ok := scalarString(entry.value)
		if !ok || strings.TrimSpace(to) == "" {
			report.warnf("%s: %s: replacement must be a non-empty string", sectionRemap, entry.key)
			continue
		}
		remap[entry.key] = strings.TrimSpace(to)
	}
	return remap
}

func parseRules(doc object, report *LoadReport) []Rule {
	raw, ok := doc.get(sectionRules)
	if !ok || raw == nil {
		report.defaulted(sectionRules)
		return DefaultRules()
	}
	list, ok := raw.([]any)
	if !ok {
		report.warnf("%s: expected a list of patterns; using built-in rules", sectionRules)
		report.defaulted(sectionRules)
		return DefaultRules()
	}
	rules := make([]Rule, 0, len(list))
	for i, item := range list {
		rule, err := parseRule(i, item)
		if err != nil {
			report.warnf("%s[%d]: %v; rule skipped", sectionRules, i, err)
			continue
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		report.warnf("%s: no usable patterns; using built-in rules", sectionRules)
		report.defaulted(sectionRules)
		return DefaultRules()
	}
	return rules
}

func parseRule(index int, raw any) (Rule, error) {
	obj, ok := raw.(object)
	if !ok {
		return Rule{}, errors.New("pattern must be a mapping")
	}
	rule := Rule{Priority: defaultPriority, Delimiter: defaultDelimiter}
	var err error

	if rule.Name, err = optString(obj, "name"); err != nil {
		return Rule{}, err
	}
	rule.Name = strings.TrimSpace(rule.Name)
	if rule.Name == "" {
		rule.Name = fmt.Sprintf("pattern_%d", index+1)
	}
	if rule.Description, err = optString(obj, "description"); err != nil {
		return Rule{}, err
	}
	if v, ok := obj.get("priority"); ok && v != nil {
		n, ok := scalarInt(v)
		if !ok {
			return Rule{}, fmt.Errorf("priority must be an integer, got %v", v)
		}
		rule.Priority = n
	}
	if rule.Prefix, err = optString(obj, "prefix"); err != nil {
		return Rule{}, err
	}
	if rule.PrefixCaseInsensitive, err = optBool(obj, "prefix_case_insensitive"); err != nil {
		return Rule{}, err
	}
	if v, ok := obj.get("delimiter"); ok && v != nil {
		delimiter, ok := v.(string)
		if !ok {
			return Rule{}, errors.New("delimiter must be a string")
		}
		rule.Delimiter = delimiter
	}
	if rule.FixedBrand, err = optString(obj, "brand_value"); err != nil {
		return Rule{}, err
	}
	rule.FixedBrand = strings.TrimSpace(rule.FixedBrand)

	if v, ok := obj.get("paper_type_processing"); ok && v != nil {
		processing, ok := v.(object)
		if !ok {
			return Rule{}, errors.New("paper_type_processing must be a mapping")
		}
		if rule.Material.Format, err = optBool(processing, "format"); err != nil {
			return Rule{}, err
		}
		if rule.Material.StripToken, err = optString(processing, "remove_brand"); err != nil {
			return Rule{}, err
		}
	}

	if v, ok := obj.get("variants"); ok && v != nil {
		list, ok := v.([]any)
		if !ok {
			return Rule{}, errors.New("variants must be a list")
		}
		for i, item := range list {
			variant, err := parseVariant(item)
			if err != nil {
				return Rule{}, fmt.Errorf("variants[%d]: %w", i, err)
			}
			rule.Variants = append(rule.Variants, variant)
		}
	}

	v, ok := obj.get("structure")
	if !ok || v == nil {
		return Rule{}, errors.New("structure is required")
	}
	list, ok := v.([]any)
	if !ok {
		return Rule{}, errors.New("structure must be a list")
	}
	for i, item := range list {
		spec, err := parseField(item)
		if err != nil {
			return Rule{}, fmt.Errorf("structure[%d]: %w", i, err)
		}
		rule.Fields = append(rule.Fields, spec)
	}
	return rule, rule.Validate()
}

func parseVariant(raw any) (PrefixVariant, error) {
	obj, ok := raw.(object)
	if !ok {
		return PrefixVariant{}, errors.New("variant must be a mapping")
	}
	literal, err := optString(obj, "prefix")
	if err != nil {
		return PrefixVariant{}, err
	}
	variant := PrefixVariant{Literal: literal, StripLength: len(literal)}
	if v, ok := obj.get("prefix_length"); ok && v != nil {
		n, ok := scalarInt(v)
		if !ok {
			return PrefixVariant{}, fmt.Errorf("prefix_length must be an integer, got %v", v)
		}
		variant.StripLength = n
	}
	return variant, nil
}

// parseField reads match_type before position; a field carrying both is a
// search field.
func parseField(raw any) (FieldSpec, error) {
	obj, ok := raw.(object)
	if !ok {
		return FieldSpec{}, errors.New("field must be a mapping")
	}
	name, err := optString(obj, "field")
	if err != nil {
		return FieldSpec{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return FieldSpec{}, errors.New("field name is required")
	}
	spec := FieldSpec{Target: ParseTarget(name)}
	if spec.Target == TargetOther {
		spec.Name = name
	}

	matchType, err := optString(obj, "match_type")
	if err != nil {
		return FieldSpec{}, err
	}
	switch strings.ToLower(strings.TrimSpace(matchType)) {
	case "key_search":
		spec.Strategy = AliasKeySearch
		return spec, nil
	case "substring":
		spec.Strategy = AliasSubstringSearch
		return spec, nil
	case "":
	default:
		return FieldSpec{}, fmt.Errorf("unknown match_type %q", matchType)
	}

	position, ok := obj.get("position")
	if !ok || position == nil {
		return FieldSpec{}, errors.New("position or match_type is required")
	}
	spec.Strategy, spec.Index, err = parsePosition(position)
	if err != nil {
		return FieldSpec{}, err
	}
	return spec, nil
}

func parsePosition(v any) (StrategyKind, int, error) {
	text, isText := v.(string)
	if !isText {
		n, ok := scalarInt(v)
		if !ok {
			return 0, 0, fmt.Errorf("position must be an integer or a keyword, got %v", v)
		}
		if n < 0 {
			return 0, 0, fmt.Errorf("negative position %d", n)
		}
		return FixedIndex, n, nil
	}
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "before_printer":
		return TextBeforeDevice, 0, nil
	case "after_printer":
		return TextAfterDevice, 0, nil
	case "remaining":
		return RemainingText, 0, nil
	}
	kind := FixedIndex
	if strings.HasSuffix(text, "+") {
		kind = FixedRange
		text = strings.TrimSuffix(text, "+")
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("unknown position %q", v)
	}
	return kind, n, nil
}

func optString(obj object, key string) (string, error) {
	v, ok := obj.get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := scalarString(v)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func optBool(obj object, key string) (bool, error) {
	v, ok := obj.get(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return b, nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int, int64, uint64:
		return fmt.Sprint(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

func scalarInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		if t < math.MinInt || t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case uint64:
		if t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case float64:
		if t != math.Trunc(t) || t < math.MinInt || t >= math.MaxInt {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
