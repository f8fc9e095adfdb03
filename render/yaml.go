package render

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/genconf/genconf/schema"
)

// YAML renders a merged schema tree as YAML lines. Traversal is depth
// first in schema order; disabled nodes vanish along with their subtrees.
// The only rejected input is a node typed both object and list, which the
// validator should have caught earlier.
func YAML(nodes []*schema.Node, opts Options) ([]string, error) {
	marker := opts.hintMarker()

	var lines []string

	first := true

	for _, n := range nodes {
		if !n.Enabled() {
			continue
		}

		block, err := yamlNode(n, 0, marker)
		if err != nil {
			return nil, err
		}

		if !first {
			for range opts.TopLevelSpacing {
				lines = append(lines, "")
			}
		}

		first = false
		lines = append(lines, block...)
	}

	return lines, nil
}

func yamlNode(n *schema.Node, indent int, marker string) ([]string, error) {
	if n.HasType(schema.TypeObject) && n.HasType(schema.TypeList) {
		return nil, &Error{Reason: fmt.Sprintf("node %q: 'multi_type' cannot contain both 'object' and 'list'", n.Key)}
	}

	prefix := strings.Repeat("  ", indent)
	lines := descriptionLines(n.Description, prefix)

	var hint string
	if n.OverrideHint {
		hint = " " + marker
	}

	key := prefix + n.Key + ":"
	resolved := n.Resolve()

	var err error

	switch {
	case n.HasType(schema.TypeList):
		err = yamlList(&lines, n, key, hint, resolved, indent, marker)
	case n.HasType(schema.TypeObject):
		err = yamlObject(&lines, n, key, hint, resolved, indent, marker)
	default:
		yamlScalar(&lines, n, key, hint, resolved, indent)
	}

	if err != nil {
		return nil, err
	}

	if n.Commented() {
		commentOut(lines)
	}

	return lines, nil
}

// yamlList renders a list-typed node: a non-empty list default wins, then
// an example item synthesized from child schemas, then the regex
// placeholder, then an empty flow list.
func yamlList(lines *[]string, n *schema.Node, key, hint string, resolved any, indent int, marker string) error {
	if items, ok := resolved.([]any); ok && len(items) > 0 {
		*lines = append(*lines, key+hint)
		appendList(lines, items, indent+1)

		return nil
	}

	if len(n.Children) > 0 {
		var children []string

		for _, child := range n.Children {
			if !child.Enabled() {
				continue
			}

			block, err := yamlNode(child, indent+1, marker)
			if err != nil {
				return err
			}

			children = append(children, block...)
		}

		if len(children) > 0 {
			*lines = append(*lines, key+hint)
			*lines = append(*lines, dashFirstItem(children)...)

			return nil
		}
	}

	if s, ok := resolved.(string); ok && s != "" {
		*lines = append(*lines, key+" "+Quote(s)+hint)

		return nil
	}

	*lines = append(*lines, key+" []"+hint)

	return nil
}

// dashFirstItem turns a rendered child block into a single example list
// item: the first data line gains "- " at its original indent and every
// following line shifts two columns right under it.
func dashFirstItem(lines []string) []string {
	out := make([]string, 0, len(lines))
	dashed := false

	for _, line := range lines {
		if dashed {
			if line == "" {
				out = append(out, line)
				continue
			}

			out = append(out, "  "+line)

			continue
		}

		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}

		indent := line[:len(line)-len(trimmed)]
		out = append(out, indent+"- "+trimmed)
		dashed = true
	}

	return out
}

// yamlObject renders an object-typed node: a non-empty dict default wins
// over child schemas, then the regex placeholder, then an empty flow map.
func yamlObject(lines *[]string, n *schema.Node, key, hint string, resolved any, indent int, marker string) error {
	if m, ok := resolved.(yaml.MapSlice); ok && len(m) > 0 {
		*lines = append(*lines, key+hint)
		appendMap(lines, m, indent+1)

		return nil
	}

	var children []string

	for _, child := range n.Children {
		if !child.Enabled() {
			continue
		}

		block, err := yamlNode(child, indent+1, marker)
		if err != nil {
			return err
		}

		children = append(children, block...)
	}

	if len(children) > 0 {
		*lines = append(*lines, key+hint)
		*lines = append(*lines, children...)

		return nil
	}

	if s, ok := resolved.(string); ok && s != "" {
		*lines = append(*lines, key+" "+Quote(s)+hint)

		return nil
	}

	*lines = append(*lines, key+" {}"+hint)

	return nil
}

// yamlScalar renders a leaf node, filling the type-hinted zero value when
// nothing resolves.
func yamlScalar(lines *[]string, n *schema.Node, key, hint string, resolved any, indent int) {
	if resolved == nil {
		resolved = scalarZero(n)
	}

	switch val := resolved.(type) {
	case yaml.MapSlice:
		// Structural default on a scalar-typed node; render it rather
		// than lose it.
		if len(val) == 0 {
			*lines = append(*lines, key+" {}"+hint)
			return
		}

		*lines = append(*lines, key+hint)
		appendMap(lines, val, indent+1)

	case []any:
		if len(val) == 0 {
			*lines = append(*lines, key+" []"+hint)
			return
		}

		*lines = append(*lines, key+hint)
		appendList(lines, val, indent+1)

	case string:
		if strings.Contains(val, "\n") {
			*lines = append(*lines, key+" "+blockIndicator(val)+hint)
			appendBlockScalar(lines, val, indent+1)

			return
		}

		*lines = append(*lines, key+" "+coerceScalar(n, val)+hint)

	default:
		s, _ := scalarText(resolved)
		*lines = append(*lines, key+" "+s+hint)
	}
}

// scalarZero gives the type-hinted zero used for enabled nodes with no
// resolvable value.
func scalarZero(n *schema.Node) any {
	switch {
	case n.HasType(schema.TypeBool):
		return false
	case n.HasType(schema.TypeNumber):
		return int64(0)
	default:
		return ""
	}
}

// coerceScalar applies the node's type hints to a string value: bool hints
// lowercase bool words, number hints keep numeric text bare. Anything the
// hints cannot claim goes through the quoter.
func coerceScalar(n *schema.Node, s string) string {
	if n.HasType(schema.TypeBool) && !n.HasType(schema.TypeString) {
		if lower := strings.ToLower(s); lower == "true" || lower == "false" {
			return lower
		}
	}

	if n.HasType(schema.TypeNumber) && !n.HasType(schema.TypeString) && numberLikePattern.MatchString(s) {
		return s
	}

	return Quote(s)
}
