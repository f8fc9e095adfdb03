package schema

import (
	"fmt"
	"strings"
)

// Section roots an INI schema document may declare, in emission order.
const (
	INIRootGlobalVars   = "global_vars"
	INIRootGroups       = "groups"
	INIRootAggregations = "aggregations"
	INIRootGroupVars    = "group_vars"
)

// INIHostnameKey is the child key naming a host inside a groups entry.
const INIHostnameKey = "hostname"

// IsINIDocument reports whether path names an INI schema document.
func IsINIDocument(path string) bool {
	return strings.HasSuffix(path, ".ini.json")
}

// Validate checks nodes structurally and returns every violation found; it
// never stops at the first error. When iniRules is true the inventory
// constraints for *.ini.json documents apply as well.
func Validate(nodes []*Node, iniRules bool) []error {
	var errs []error

	for i, n := range nodes {
		path := nodePath("", n, i)

		if iniRules {
			errs = append(errs, validateINIRoot(n, path)...)
		}

		errs = append(errs, validateNode(n, path)...)
	}

	return errs
}

func validateNode(n *Node, path string) []error {
	var errs []error

	if n.Key == "" {
		errs = append(errs, fmt.Errorf("%s: missing 'key' attribute", path))
	}

	if n.legacyType {
		errs = append(errs, fmt.Errorf("%s: legacy 'type' field found, use 'multi_type'", path))
	}

	if n.legacyItemType {
		errs = append(errs, fmt.Errorf("%s: legacy 'item_type' field found, use 'item_multi_type'", path))
	}

	switch {
	case n.badMultiType != "":
		errs = append(errs, fmt.Errorf("%s: 'multi_type' must be a list of strings, got %s", path, n.badMultiType))

	case len(n.MultiType) == 0:
		errs = append(errs, fmt.Errorf("%s: missing 'multi_type' attribute", path))

	default:
		hasObject := n.HasType(TypeObject)
		hasList := n.HasType(TypeList)

		if hasObject && hasList {
			errs = append(errs, fmt.Errorf("%s: 'multi_type' cannot contain both 'object' and 'list'", path))
		}

		if hasList && len(n.ItemMultiType) == 0 && n.badItemMultiType == "" {
			errs = append(errs, fmt.Errorf("%s: 'multi_type' contains 'list' but 'item_multi_type' is empty", path))
		}

		if hasObject && len(n.ItemMultiType) > 0 {
			errs = append(errs, fmt.Errorf("%s: 'multi_type' contains 'object' but 'item_multi_type' is not empty", path))
		}

		if hasList && len(n.Children) > 0 && !n.HasItemType(TypeObject) {
			errs = append(errs, fmt.Errorf("%s: 'list' node with 'children' must have 'item_multi_type' containing 'object'", path))
		}
	}

	if n.badItemMultiType != "" {
		errs = append(errs, fmt.Errorf("%s: 'item_multi_type' must be a list of strings, got %s", path, n.badItemMultiType))
	}

	for i, child := range n.Children {
		errs = append(errs, validateNode(child, nodePath(path, child, i))...)
	}

	return errs
}

func validateINIRoot(n *Node, path string) []error {
	var errs []error

	switch n.Key {
	case INIRootGlobalVars, INIRootGroups, INIRootAggregations, INIRootGroupVars:
		if !n.HasType(TypeObject) {
			errs = append(errs, fmt.Errorf("%s: INI root node must have 'multi_type' containing 'object'", path))
		}

	default:
		return []error{fmt.Errorf("%s: invalid INI root key %q", path, n.Key)}
	}

	switch n.Key {
	case INIRootGroups:
		for i, child := range n.Children {
			cp := nodePath(path, child, i)

			if !child.HasType(TypeList) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'groups' must have 'multi_type' containing 'list'", cp))
			}

			if !child.HasItemType(TypeObject) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'groups' must have 'item_multi_type' containing 'object'", cp))
			}

			if !hasChildKey(child, INIHostnameKey) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'groups' must declare a child with key %q", cp, INIHostnameKey))
			}
		}

	case INIRootAggregations:
		for i, child := range n.Children {
			cp := nodePath(path, child, i)

			if !child.HasType(TypeList) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'aggregations' must have 'multi_type' containing 'list'", cp))
			}

			if !child.HasItemType(TypeObject) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'aggregations' must have 'item_multi_type' containing 'object'", cp))
			}

			for j, gc := range child.Children {
				if !gc.HasType(TypeObject) {
					errs = append(errs, fmt.Errorf("%s: node under an INI 'aggregations' group must have 'multi_type' containing 'object'", nodePath(cp, gc, j)))
				}
			}
		}

	case INIRootGroupVars:
		for i, child := range n.Children {
			if !child.HasType(TypeObject) {
				errs = append(errs, fmt.Errorf("%s: node under INI 'group_vars' must have 'multi_type' containing 'object'", nodePath(path, child, i)))
			}
		}
	}

	return errs
}

func hasChildKey(n *Node, key string) bool {
	for _, child := range n.Children {
		if child.Key == key {
			return true
		}
	}

	return false
}

func nodePath(parent string, n *Node, i int) string {
	name := n.Key
	if name == "" {
		name = fmt.Sprintf("[%d]", i)
	}

	if parent == "" {
		return name
	}

	return parent + "." + name
}
