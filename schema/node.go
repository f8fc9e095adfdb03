package schema

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// Node type names allowed in multi_type and item_multi_type.
const (
	TypeObject = "object"
	TypeList   = "list"
	TypeString = "string"
	TypeBool   = "bool"
	TypeNumber = "number"
)

// Override strategies controlling how children combine during a merge.
const (
	StrategyMerge   = "merge"
	StrategyReplace = "replace"
)

var (
	// ErrInvalidDocument indicates a schema document that could not be
	// decoded into nodes.
	ErrInvalidDocument = errors.New("invalid schema document")
)

// Node is a single schema tree node. A schema document holds one node or an
// ordered list of them; every generated line of output traces back to a
// node.
type Node struct {
	Key              string
	MultiType        []string
	ItemMultiType    []string
	Description      string
	DefaultValue     any
	Regex            string
	Required         bool
	OverrideStrategy string
	OverrideHint     bool
	IsOverride       bool
	RegexEnable      bool
	Condition        *Condition
	Children         []*Node

	legacyType       bool
	legacyItemType   bool
	badMultiType     string
	badItemMultiType string
}

// Condition is the reserved conditional block. A node carrying at least one
// rule is exempt from the commenting applied to non-required nodes.
type Condition struct {
	Conditions []ConditionRule
}

// ConditionRule matches an environment variable value against a regex.
type ConditionRule struct {
	Key   string
	Regex string
}

// HasType reports whether t appears in the node's multi_type set.
func (n *Node) HasType(t string) bool {
	for _, mt := range n.MultiType {
		if mt == t {
			return true
		}
	}

	return false
}

// HasItemType reports whether t appears in the node's item_multi_type set.
func (n *Node) HasItemType(t string) bool {
	for _, mt := range n.ItemMultiType {
		if mt == t {
			return true
		}
	}

	return false
}

// Enabled reports whether the node produces output at all. Disabled nodes
// are skipped entirely, including their children.
func (n *Node) Enabled() bool {
	return n.Required || n.DefaultValue != nil || n.Regex != ""
}

// Commented reports whether the node's data lines must be prefixed with
// "# " in rendered output. Only non-required nodes without conditional
// rules are commented.
func (n *Node) Commented() bool {
	if n.Required {
		return false
	}

	if n.Condition != nil && len(n.Condition.Conditions) > 0 {
		return false
	}

	return true
}

// Resolve returns the node's effective value: the default value unless it
// is nil or an empty string, else the regex placeholder, else nil.
func (n *Node) Resolve() any {
	if n.DefaultValue != nil {
		if s, ok := n.DefaultValue.(string); !ok || s != "" {
			return n.DefaultValue
		}
	}

	if n.Regex != "" {
		return n.Regex
	}

	return nil
}

// ResolveIn resolves the node's value inside parent, falling back to the
// entry under the node's key in the parent's dict default before the regex
// placeholder. Inventory sections use this so a parent may carry the values
// for children that only declare structure.
func (n *Node) ResolveIn(parent *Node) any {
	if n.DefaultValue != nil {
		if s, ok := n.DefaultValue.(string); !ok || s != "" {
			return n.DefaultValue
		}
	}

	if parent != nil {
		if m, ok := parent.DefaultValue.(yaml.MapSlice); ok {
			for _, item := range m {
				if key, ok := item.Key.(string); ok && key == n.Key {
					return item.Value
				}
			}
		}
	}

	if n.Regex != "" {
		return n.Regex
	}

	return nil
}

// ParseNodes decodes a schema document into nodes. A document is either a
// single node object or a list of node objects. Mappings decode as ordered
// maps so structural defaults render in insertion order.
func ParseNodes(data []byte) ([]*Node, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	switch d := doc.(type) {
	case yaml.MapSlice:
		node, err := NodeFromValue(d)
		if err != nil {
			return nil, err
		}

		return []*Node{node}, nil

	case []any:
		nodes := make([]*Node, 0, len(d))

		for i, item := range d {
			m, ok := item.(yaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidDocument, i)
			}

			node, err := NodeFromValue(m)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}

			nodes = append(nodes, node)
		}

		return nodes, nil

	case nil:
		return nil, nil
	}

	return nil, fmt.Errorf("%w: expected an object or a list, got %T", ErrInvalidDocument, doc)
}

// LoadNodes reads and decodes the schema document at path.
func LoadNodes(fsys afero.Fs, path string) ([]*Node, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading schema document: %w", err)
	}

	nodes, err := ParseNodes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return nodes, nil
}

// NodeFromValue converts one decoded mapping into a [Node]. Retired
// attribute spellings and wrong-typed type lists are recorded for
// [Validate] but never mapped.
func NodeFromValue(m yaml.MapSlice) (*Node, error) {
	node := &Node{}

	for _, item := range m {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string attribute name %v", ErrInvalidDocument, item.Key)
		}

		var err error

		switch name {
		case "key":
			node.Key, err = stringAttr(name, item.Value)
		case "multi_type":
			node.MultiType, node.badMultiType = stringListAttr(item.Value)
		case "item_multi_type":
			node.ItemMultiType, node.badItemMultiType = stringListAttr(item.Value)
		case "description":
			node.Description, err = stringAttr(name, item.Value)
		case "default_value":
			node.DefaultValue = item.Value
		case "regex":
			node.Regex, err = stringAttr(name, item.Value)
		case "required":
			node.Required, err = boolAttr(name, item.Value)
		case "override_strategy":
			node.OverrideStrategy, err = stringAttr(name, item.Value)
		case "override_hint":
			node.OverrideHint, err = boolAttr(name, item.Value)
		case "is_override":
			node.IsOverride, err = boolAttr(name, item.Value)
		case "regex_enable":
			node.RegexEnable, err = boolAttr(name, item.Value)
		case "condition":
			node.Condition, err = conditionAttr(item.Value)
		case "children":
			node.Children, err = childrenAttr(item.Value)
		case "type":
			node.legacyType = true
		case "item_type":
			node.legacyItemType = true
		}

		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func stringAttr(name string, v any) (string, error) {
	if v == nil {
		return "", nil
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: attribute %q: expected a string, got %T", ErrInvalidDocument, name, v)
	}

	return s, nil
}

func boolAttr(name string, v any) (bool, error) {
	if v == nil {
		return false, nil
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: attribute %q: expected a bool, got %T", ErrInvalidDocument, name, v)
	}

	return b, nil
}

// stringListAttr decodes a type list. A wrong-typed value never fails the
// decode: it comes back described in bad so [Validate] reports it as a
// structural violation rather than a parse failure.
func stringListAttr(v any) (out []string, bad string) {
	if v == nil {
		return nil, ""
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Sprintf("%T", v)
	}

	out = make([]string, 0, len(list))

	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Sprintf("a list with a %T element", item)
		}

		out = append(out, s)
	}

	return out, ""
}

func conditionAttr(v any) (*Condition, error) {
	if v == nil {
		return nil, nil
	}

	m, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q: expected an object, got %T", ErrInvalidDocument, "condition", v)
	}

	cond := &Condition{}

	for _, item := range m {
		if name, ok := item.Key.(string); !ok || name != "conditions" {
			continue
		}

		rules, ok := item.Value.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q: expected a list of rules", ErrInvalidDocument, "condition.conditions")
		}

		for _, rv := range rules {
			rm, ok := rv.(yaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %q: expected rule objects", ErrInvalidDocument, "condition.conditions")
			}

			rule := ConditionRule{}

			for _, ri := range rm {
				name, ok := ri.Key.(string)
				if !ok {
					continue
				}

				var err error

				switch name {
				case "key":
					rule.Key, err = stringAttr("condition key", ri.Value)
				case "regex":
					rule.Regex, err = stringAttr("condition regex", ri.Value)
				}

				if err != nil {
					return nil, err
				}
			}

			cond.Conditions = append(cond.Conditions, rule)
		}
	}

	return cond, nil
}

func childrenAttr(v any) ([]*Node, error) {
	if v == nil {
		return nil, nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q: expected a list of nodes, got %T", ErrInvalidDocument, "children", v)
	}

	children := make([]*Node, 0, len(list))

	for i, item := range list {
		m, ok := item.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%w: child %d is not an object", ErrInvalidDocument, i)
		}

		child, err := NodeFromValue(m)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}

		children = append(children, child)
	}

	return children, nil
}
