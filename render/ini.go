package render

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/genconf/genconf/schema"
)

// iniSectionOrder fixes the emission order of inventory blocks regardless
// of where the roots appear in the document.
var iniSectionOrder = []string{
	schema.INIRootGlobalVars,
	schema.INIRootGroups,
	schema.INIRootAggregations,
	schema.INIRootGroupVars,
}

// INI renders an inventory schema tree as Ansible INI lines. The four
// section roots emit in fixed order: global_vars, groups, aggregations,
// group_vars. Disabled roots are skipped; optional sections render fully
// commented out.
func INI(nodes []*schema.Node, opts Options) []string {
	marker := opts.hintMarker()

	var lines []string

	for _, rootKey := range iniSectionOrder {
		for _, n := range nodes {
			if n.Key != rootKey || !n.Enabled() {
				continue
			}

			switch rootKey {
			case schema.INIRootGlobalVars:
				lines = append(lines, iniGlobalVars(n, marker)...)
			case schema.INIRootGroups:
				lines = append(lines, iniGroups(n, marker)...)
			case schema.INIRootAggregations:
				lines = append(lines, iniAggregations(n, marker)...)
			case schema.INIRootGroupVars:
				lines = append(lines, iniGroupVars(n, marker)...)
			}
		}
	}

	return lines
}

// iniSection is one emitted inventory block: banner, [header], body lines,
// and a trailing blank separator.
type iniSection struct {
	banner    string
	header    string
	body      []string
	hinted    bool
	commented bool
}

func (s iniSection) lines(marker string) []string {
	lines := bannerLines(s.banner, "")

	header := "[" + s.header + "]"
	if s.hinted {
		header += " " + marker
	}

	block := append([]string{header}, s.body...)
	if s.commented {
		commentOut(block)
	}

	lines = append(lines, block...)

	return append(lines, "")
}

// sectionTitle picks the banner text: the description with a leading "#"
// stripped, or the node key when there is no description.
func sectionTitle(n *schema.Node) string {
	if n.Description != "" {
		return strings.TrimSpace(strings.TrimPrefix(n.Description, "#"))
	}

	return n.Key
}

// iniGlobalVars emits [all:vars]: child schema values overlaid by the
// root's own dict default, later wins.
func iniGlobalVars(n *schema.Node, marker string) []string {
	vars := orderedVars{}

	for _, child := range n.Children {
		if !child.Enabled() {
			continue
		}

		vars.set(child.Key, child.Resolve())
	}

	if m, ok := n.DefaultValue.(yaml.MapSlice); ok {
		for _, item := range m {
			vars.set(mapKey(item.Key), item.Value)
		}
	}

	section := iniSection{
		banner:    sectionTitle(n),
		header:    "all:vars",
		body:      vars.lines(),
		hinted:    n.OverrideHint,
		commented: n.Commented(),
	}

	return section.lines(marker)
}

// iniGroups emits one [<group>] block per child in schema order, then one
// per extra key found only in the root's dict default.
func iniGroups(root *schema.Node, marker string) []string {
	var lines []string

	declared := make(map[string]struct{})

	for _, group := range root.Children {
		declared[group.Key] = struct{}{}

		if !group.Enabled() {
			continue
		}

		section := iniSection{
			banner:    sectionTitle(group),
			header:    group.Key,
			body:      hostRows(group, root),
			hinted:    group.OverrideHint,
			commented: group.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	for _, item := range rootDict(root) {
		name := mapKey(item.Key)
		if _, ok := declared[name]; ok {
			continue
		}

		section := iniSection{
			banner:    name,
			header:    name,
			body:      hostRowsFromValue(item.Value),
			commented: root.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	return lines
}

// hostRows lists a group's hosts: resolved rows when the group or the
// root dict supply them, otherwise a synthetic example built from the
// group's child schemas.
func hostRows(group, root *schema.Node) []string {
	if hosts, ok := group.ResolveIn(root).([]any); ok && len(hosts) > 0 {
		return hostRowsFromValue(hosts)
	}

	return exampleHostRow(group)
}

func hostRowsFromValue(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	rows := make([]string, 0, len(items))

	for _, item := range items {
		switch val := item.(type) {
		case string:
			rows = append(rows, Quote(val))
		case yaml.MapSlice:
			if len(val) == 0 {
				continue
			}

			rows = append(rows, hostRow(val))
		default:
			rows = append(rows, iniValue(item))
		}
	}

	return rows
}

// hostRow renders a host object: the hostname entry (or the first entry
// when no hostname exists) leads, remaining fields follow as key=value
// pairs joined by single spaces.
func hostRow(m yaml.MapSlice) string {
	lead := 0

	for i, item := range m {
		if mapKey(item.Key) == schema.INIHostnameKey {
			lead = i
			break
		}
	}

	parts := []string{iniValue(m[lead].Value)}

	for i, item := range m {
		if i == lead {
			continue
		}

		parts = append(parts, mapKey(item.Key)+"="+iniValue(item.Value))
	}

	return strings.Join(parts, " ")
}

// exampleHostRow synthesizes one host line from the group's child schemas,
// using each child's default or regex placeholder.
func exampleHostRow(group *schema.Node) []string {
	var (
		lead   string
		fields []string
	)

	for _, child := range group.Children {
		v := child.Resolve()
		if v == nil {
			continue
		}

		if lead == "" && child.Key == schema.INIHostnameKey {
			lead = iniValue(v)
			continue
		}

		fields = append(fields, child.Key+"="+iniValue(v))
	}

	if lead == "" {
		if len(fields) == 0 {
			return nil
		}

		// No hostname schema resolved; promote the first field's value.
		first := fields[0]
		if i := strings.IndexByte(first, '='); i >= 0 {
			lead = first[i+1:]
		}

		fields = fields[1:]
	}

	return []string{strings.Join(append([]string{lead}, fields...), " ")}
}

// iniAggregations emits one [<name>:children] block per child in schema
// order, then one per extra key found only in the root's dict default.
func iniAggregations(root *schema.Node, marker string) []string {
	var lines []string

	declared := make(map[string]struct{})

	for _, agg := range root.Children {
		declared[agg.Key] = struct{}{}

		if !agg.Enabled() {
			continue
		}

		section := iniSection{
			banner:    sectionTitle(agg),
			header:    agg.Key + ":children",
			body:      memberRows(agg, root),
			hinted:    agg.OverrideHint,
			commented: agg.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	for _, item := range rootDict(root) {
		name := mapKey(item.Key)
		if _, ok := declared[name]; ok {
			continue
		}

		section := iniSection{
			banner:    name,
			header:    name + ":children",
			body:      memberRowsFromValue(item.Value),
			commented: root.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	return lines
}

// memberRows lists the member group names of one aggregation: the resolved
// list when the aggregation or the root dict supply one, otherwise the
// keys of its child schemas.
func memberRows(agg, root *schema.Node) []string {
	if members, ok := agg.ResolveIn(root).([]any); ok && len(members) > 0 {
		return memberRowsFromValue(members)
	}

	rows := make([]string, 0, len(agg.Children))
	for _, child := range agg.Children {
		rows = append(rows, child.Key)
	}

	return rows
}

func memberRowsFromValue(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	rows := make([]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, iniValue(item))
	}

	return rows
}

// iniGroupVars emits one [<group>:vars] block per child in schema order,
// then one per extra key found only in the root's dict default. Values
// merge from three layers, later wins: the group's child schemas, the
// group's own dict default, and the dict under the group's key in the
// root default.
func iniGroupVars(root *schema.Node, marker string) []string {
	var lines []string

	declared := make(map[string]struct{})
	rootVars := rootDict(root)

	for _, group := range root.Children {
		declared[group.Key] = struct{}{}

		if !group.Enabled() {
			continue
		}

		vars := orderedVars{}

		for _, child := range group.Children {
			if !child.Enabled() {
				continue
			}

			vars.set(child.Key, child.Resolve())
		}

		if own, ok := group.DefaultValue.(yaml.MapSlice); ok {
			for _, item := range own {
				vars.set(mapKey(item.Key), item.Value)
			}
		}

		for _, item := range rootVars {
			if mapKey(item.Key) != group.Key {
				continue
			}

			if m, ok := item.Value.(yaml.MapSlice); ok {
				for _, entry := range m {
					vars.set(mapKey(entry.Key), entry.Value)
				}
			}
		}

		section := iniSection{
			banner:    sectionTitle(group),
			header:    group.Key + ":vars",
			body:      vars.lines(),
			hinted:    group.OverrideHint,
			commented: group.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	for _, item := range rootVars {
		name := mapKey(item.Key)
		if _, ok := declared[name]; ok {
			continue
		}

		m, ok := item.Value.(yaml.MapSlice)
		if !ok {
			continue
		}

		vars := orderedVars{}
		for _, entry := range m {
			vars.set(mapKey(entry.Key), entry.Value)
		}

		section := iniSection{
			banner:    name,
			header:    name + ":vars",
			body:      vars.lines(),
			commented: root.Commented(),
		}
		lines = append(lines, section.lines(marker)...)
	}

	return lines
}

func rootDict(n *schema.Node) yaml.MapSlice {
	m, _ := n.DefaultValue.(yaml.MapSlice)
	return m
}

// orderedVars accumulates key=value lines preserving first-appearance
// order; setting an existing key overwrites in place.
type orderedVars struct {
	keys   []string
	values map[string]any
}

func (v *orderedVars) set(key string, value any) {
	if v.values == nil {
		v.values = make(map[string]any)
	}

	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}

	v.values[key] = value
}

func (v *orderedVars) lines() []string {
	lines := make([]string, 0, len(v.keys))
	for _, k := range v.keys {
		lines = append(lines, k+"="+iniValue(v.values[k]))
	}

	return lines
}

// iniValue formats a value for inventory lines; containers collapse to
// single-line flow form and newlines are escaped to keep the line model.
func iniValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if strings.Contains(val, "\n") {
			val = strings.ReplaceAll(val, "\n", `\n`)
		}

		return Quote(val)
	case []any:
		return flowList(val)
	case yaml.MapSlice:
		return flowMap(val)
	}

	s, _ := scalarText(v)

	return s
}

func flowList(items []any) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, iniValue(item))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func flowMap(m yaml.MapSlice) string {
	parts := make([]string, 0, len(m))
	for _, item := range m {
		parts = append(parts, mapKey(item.Key)+": "+iniValue(item.Value))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
